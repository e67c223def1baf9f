package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/patrickmn/go-cache"

	"superforge/internal/descriptor"
	"superforge/internal/logging"
	"superforge/internal/manifest"
	"superforge/internal/partition"
	"superforge/internal/services"
)

// BookSummary describes one book in listings.
type BookSummary struct {
	Book           int    `json:"book"`
	Sections       []int  `json:"sections"`
	Chapters       int    `json:"chapters"`
	StoredChapters int    `json:"stored_chapters"`
	Title          string `json:"title,omitempty"`
	OutputFile     string `json:"output_file"`
}

// ManifestResponse lists a book's documents in order.
type ManifestResponse struct {
	Book      int      `json:"book"`
	Sections  []int    `json:"sections"`
	FullPaths bool     `json:"full_paths"`
	Documents []string `json:"documents"`
}

type errorResponse struct {
	Error     string `json:"error"`
	Kind      string `json:"kind,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	payload := map[string]string{"status": "ok", "store": "disabled"}
	if s.store != nil {
		if err := s.store.Ping(r.Context()); err != nil {
			payload["status"] = "degraded"
			payload["store"] = err.Error()
			writeJSON(w, http.StatusServiceUnavailable, payload)
			return
		}
		payload["store"] = "ok"
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleLocate(w http.ResponseWriter, r *http.Request) {
	chapter, ok := s.intParam(w, r, "chapter")
	if !ok {
		return
	}
	loc, err := partition.Locate(chapter)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, loc)
}

func (s *Server) handleSections(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, partition.Catalog())
}

func (s *Server) handleSection(w http.ResponseWriter, r *http.Request) {
	section, ok := s.intParam(w, r, "section")
	if !ok {
		return
	}
	info, err := partition.Describe(section)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleBooks(w http.ResponseWriter, r *http.Request) {
	books := make([]BookSummary, 0, partition.BookCount)
	for _, book := range partition.Books() {
		summary, err := s.bookSummary(r, book)
		if err != nil {
			s.writeFailure(w, r, err)
			return
		}
		books = append(books, summary)
	}
	writeJSON(w, http.StatusOK, books)
}

func (s *Server) bookSummary(r *http.Request, book int) (BookSummary, error) {
	sections, err := partition.SectionsOf(book)
	if err != nil {
		return BookSummary{}, err
	}
	summary := BookSummary{Book: book, Sections: sections, OutputFile: descriptor.DefaultOutputFile(book)}
	for _, section := range sections {
		count, err := partition.ChapterCount(section)
		if err != nil {
			return BookSummary{}, err
		}
		summary.Chapters += count
	}
	if s.store == nil {
		return summary, nil
	}
	rec, err := s.store.Book(r.Context(), book)
	if err != nil {
		return BookSummary{}, err
	}
	if rec != nil {
		summary.Title = rec.Title
		if rec.OutputFile != "" {
			summary.OutputFile = rec.OutputFile
		}
	}
	if summary.StoredChapters, err = s.store.ChapterCount(r.Context(), book); err != nil {
		return BookSummary{}, err
	}
	return summary, nil
}

func (s *Server) handleManifest(w http.ResponseWriter, r *http.Request) {
	book, ok := s.intParam(w, r, "book")
	if !ok {
		return
	}
	m, err := manifest.Build(book)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	fullPaths := parseBool(r.URL.Query().Get("paths"))
	writeJSON(w, http.StatusOK, ManifestResponse{
		Book:      book,
		Sections:  m.Sections,
		FullPaths: fullPaths,
		Documents: m.Render(s.cfg.Layout(), fullPaths),
	})
}

func (s *Server) handleDescriptor(w http.ResponseWriter, r *http.Request) {
	book, ok := s.intParam(w, r, "book")
	if !ok {
		return
	}
	key := descriptorKey(book)
	body, found := s.cache.Get(key)
	if !found {
		encoded, err := s.descriptorBody(r, book)
		if err != nil {
			s.writeFailure(w, r, err)
			return
		}
		s.cache.Set(key, encoded, cache.DefaultExpiration)
		body = encoded
	}
	w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body.([]byte))
}

// descriptorBody prefers the descriptor last written by a build and renders
// one from the static tables otherwise.
func (s *Server) descriptorBody(r *http.Request, book int) ([]byte, error) {
	if err := partition.ValidateBook(book); err != nil {
		return nil, err
	}
	outputFile := ""
	if s.store != nil {
		stored, err := s.store.Descriptor(r.Context(), book)
		if err != nil {
			return nil, err
		}
		if stored != nil {
			return []byte(stored.Body), nil
		}
		rec, err := s.store.Book(r.Context(), book)
		if err != nil {
			return nil, err
		}
		if rec != nil {
			outputFile = rec.OutputFile
		}
	}
	m, err := manifest.Build(book)
	if err != nil {
		return nil, err
	}
	d, err := descriptor.Render(book, m, s.cfg.BookResources(book, outputFile))
	if err != nil {
		return nil, err
	}
	return d.Encode()
}

func (s *Server) intParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	value, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid %s %q", name, raw))
		return 0, false
	}
	return value, true
}

func (s *Server) writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	kind := services.Kind(err)
	status := http.StatusInternalServerError
	switch kind {
	case services.KindValidation:
		status = http.StatusBadRequest
	case services.KindNotFound:
		status = http.StatusNotFound
	default:
		logging.WithContext(r.Context(), s.logger).Error("api request failed",
			logging.String("path", r.URL.Path),
			logging.Error(err),
		)
	}
	requestID, _ := services.RequestIDFromContext(r.Context())
	writeJSON(w, status, errorResponse{
		Error:     err.Error(),
		Kind:      kind,
		RequestID: requestID,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	_ = encoder.Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func descriptorKey(book int) string {
	return "descriptor:" + strconv.Itoa(book)
}

func parseBool(value string) bool {
	parsed, err := strconv.ParseBool(strings.TrimSpace(value))
	return err == nil && parsed
}
