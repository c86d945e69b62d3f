package api

import (
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gem5tools/spillscope/presentation"
	"github.com/gem5tools/spillscope/query"
)

func (s *Server) handleHealth(c *gin.Context) {
	if _, err := os.Stat(s.cfg.SpillLog); err != nil {
		respondError(c, http.StatusServiceUnavailable, err)
		return
	}
	respond(c, gin.H{"status": "healthy"}, "service is healthy")
}

func (s *Server) handleStatus(c *gin.Context) {
	status := gin.H{
		"spill_log":        s.cfg.SpillLog,
		"spill_log_exists": false,
	}
	if info, err := os.Stat(s.cfg.SpillLog); err == nil {
		status["spill_log_exists"] = true
		status["size_bytes"] = info.Size()
		status["modified"] = info.ModTime()
	}
	respond(c, status, "system status retrieved")
}

func (s *Server) handleAnalyze(c *gin.Context) {
	res, err := s.analyzer.Analyze(c.Request.Context(), s.cfg.SpillLog)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	respond(c, res, "spill analysis complete")
}

func (s *Server) handleCount(c *gin.Context) {
	pred, ok := s.predicateFrom(c)
	if !ok {
		return
	}
	scanLimit := uintParam(c, "scan_limit", 0)

	res, err := query.Count(c.Request.Context(), s.cfg.SpillLog, pred, scanLimit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	respond(c, res, "count complete")
}

func (s *Server) handleSearch(c *gin.Context) {
	pred, ok := s.predicateFrom(c)
	if !ok {
		return
	}
	offset := uintParam(c, "offset", 0)
	limit := uintParam(c, "limit", 100)

	page, err := query.Search(c.Request.Context(), s.cfg.SpillLog, pred, offset, limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	respond(c, gin.H{
		"events":   presentation.FormatEvents(page.Events),
		"has_more": page.HasMore,
		"scanned":  page.Scanned,
	}, "search complete")
}

func (s *Server) handleSample(c *gin.Context) {
	k := int(uintParam(c, "k", uint64(s.cfg.SampleSize)))

	events, err := s.analyzer.Sample(c.Request.Context(), s.cfg.SpillLog, k)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	respond(c, gin.H{
		"events": presentation.FormatEvents(events),
		"k":      k,
	}, "sample drawn")
}

func (s *Server) handleRange(c *gin.Context) {
	by, err := query.ParseRangeBy(c.Query("by"))
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	start := uintParam(c, "start", 0)
	end := uintParam(c, "end", 0)

	events, err := query.Range(c.Request.Context(), s.cfg.SpillLog, start, end, by)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	respond(c, gin.H{"events": presentation.FormatEvents(events)}, "range complete")
}

func (s *Server) predicateFrom(c *gin.Context) (*query.Predicate, bool) {
	field, err := query.ParseField(c.Query("field"))
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return nil, false
	}
	pred, err := query.NewPredicate(field, c.Query("q"))
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return nil, false
	}
	return pred, true
}

func uintParam(c *gin.Context, name string, def uint64) uint64 {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return def
	}
	return v
}
