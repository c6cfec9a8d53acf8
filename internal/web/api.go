package web

import (
	"encoding/json"
	"fmt"
	"net/http"
)

func (s *Server) maxBodyBytes() int64 {
	// JSON-экранирование может увеличить код в несколько раз
	return int64(s.cfg.MaxCodeBytes)*6 + 4096
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// handleDescribe POST /api/describe.
func (s *Server) handleDescribe(w http.ResponseWriter, r *http.Request) {
	if f := s.app.Unavailable(); f != nil {
		writeJSON(w, http.StatusServiceUnavailable, describeResponse{Error: failureDTO(f)})
		return
	}

	var in describeRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBodyBytes()))
	if err := dec.Decode(&in); err != nil {
		status, e := classify(fmt.Errorf("invalid JSON: %w", err))
		writeJSON(w, status, describeResponse{Error: e})
		return
	}
	req, err := in.toRequest()
	if err != nil {
		status, e := classify(err)
		writeJSON(w, status, describeResponse{Error: e})
		return
	}

	res, err := s.app.Run(r.Context(), req, nil)
	if err != nil {
		status, e := classify(err)
		out := describeResponse{Error: e}
		if res != nil {
			out.RequestID = res.RequestID
		}
		writeJSON(w, status, out)
		return
	}
	writeJSON(w, http.StatusOK, describeResponse{
		RequestID:      res.RequestID,
		Description:    res.Description,
		Audio:          toAudioDTO(res.Audio),
		NarrationError: failureDTO(res.NarrationFailure),
	})
}

// handleVoices GET /api/voices.
func (s *Server) handleVoices(w http.ResponseWriter, _ *http.Request) {
	if f := s.app.Unavailable(); f != nil {
		writeJSON(w, http.StatusServiceUnavailable, describeResponse{Error: failureDTO(f)})
		return
	}
	voices := s.app.Voices()
	out := voicesResponse{Voices: voices}
	if len(voices) > 0 {
		out.Default = voices[0]
	}
	writeJSON(w, http.StatusOK, out)
}
