package partition

const (
	// FirstChapter and LastChapter bound the published chapter numbers.
	FirstChapter = 1
	LastChapter  = 3462
	// SectionCount is the number of sections in the series.
	SectionCount = 17
	// BookCount is the number of books in the series.
	BookCount = 10
)

// skippedChapters holds chapter numbers inside [FirstChapter, LastChapter]
// that were never published.
var skippedChapters = map[int]struct{}{
	3095: {},
	3117: {},
}

// sectionBounds holds the inclusive last chapter of each section; index 0 is
// section 1. Section N starts one chapter after section N-1 ends.
var sectionBounds = [SectionCount]int{
	424,  // 1
	882,  // 2
	1338, // 3
	1679, // 4
	1711, // 5
	1821, // 6
	1960, // 7
	2165, // 8
	2204, // 9
	2299, // 10
	2443, // 11
	2639, // 12
	2765, // 13
	2891, // 14
	3033, // 15
	3303, // 16
	3462, // 17
}

// sectionBooks holds the owning book of each section; index 0 is section 1.
var sectionBooks = [SectionCount]int{
	1, 2, 3,
	4, 4,
	5, 5,
	6, 6,
	7, 7,
	8, 8,
	9, 9,
	10, 10,
}

// SkippedChapters returns the unpublished chapter numbers in ascending order.
func SkippedChapters() []int {
	return []int{3095, 3117}
}

// IsSkipped reports whether chapter is one of the unpublished numbers.
func IsSkipped(chapter int) bool {
	_, ok := skippedChapters[chapter]
	return ok
}

// Sections returns every section number in ascending order.
func Sections() []int {
	out := make([]int, SectionCount)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

// Books returns every book number in ascending order.
func Books() []int {
	out := make([]int, BookCount)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

// ChapterTotal returns the number of published chapters.
func ChapterTotal() int {
	return LastChapter - FirstChapter + 1 - len(skippedChapters)
}
