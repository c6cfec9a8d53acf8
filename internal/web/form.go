package web

import (
	"CodeNarrator/internal/app/narrator"
	"CodeNarrator/internal/prompt"
	"CodeNarrator/internal/service"
	"bytes"
	"encoding/base64"
	"html/template"
	"net/http"
	"time"
)

type pageData struct {
	ConfigError    string
	Code           string
	Level          string
	Audio          bool
	Voice          string
	Voices         []string
	Warning        string
	Error          string
	Description    string
	AudioURL       template.URL
	FileName       string
	Duration       string
	NarrationError string
	Footer         string
}

func (s *Server) newPage() pageData {
	p := pageData{Level: prompt.General.String(), Voices: s.app.Voices(), FileName: DownloadName, Footer: s.footer}
	if len(p.Voices) > 0 {
		p.Voice = p.Voices[0]
	}
	if f := s.app.Unavailable(); f != nil {
		p.ConfigError = f.Message
	}
	return p
}

func (s *Server) render(w http.ResponseWriter, status int, p pageData) {
	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, p); err != nil {
		s.logger.Errorw("Не удалось отрисовать страницу", "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// handleIndex GET /.
func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	p := s.newPage()
	status := http.StatusOK
	if p.ConfigError != "" {
		status = http.StatusServiceUnavailable
	}
	s.render(w, status, p)
}

// handleSubmit POST /: отправка формы, результат рисуется на той же странице.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	p := s.newPage()
	if p.ConfigError != "" {
		s.render(w, http.StatusServiceUnavailable, p)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes())
	if err := r.ParseForm(); err != nil {
		status, e := classify(err)
		p.Error = e.Message
		s.render(w, status, p)
		return
	}
	p.Code = r.PostFormValue("code")
	p.Audio = r.PostFormValue("audio") != ""
	if v := r.PostFormValue("voice"); v != "" {
		p.Voice = v
	}

	level, err := prompt.ParseLevel(r.PostFormValue("level"))
	if err != nil {
		status, e := classify(err)
		p.Error = e.Message
		s.render(w, status, p)
		return
	}
	p.Level = level.String()

	voice := ""
	if p.Audio {
		voice = p.Voice
	}
	res, err := s.app.Run(r.Context(), narrator.Request{Code: p.Code, Level: level, WithAudio: p.Audio, Voice: voice}, nil)
	if err != nil {
		status, e := classify(err)
		if service.IsKind(err, service.KindEmptyInput) {
			p.Warning = e.Message
		} else {
			p.Error = e.Message
		}
		s.render(w, status, p)
		return
	}

	p.Description = res.Description
	if res.Audio != nil {
		p.AudioURL = template.URL("data:audio/mpeg;base64," + base64.StdEncoding.EncodeToString(res.Audio.Data))
		if res.Audio.Duration > 0 {
			p.Duration = res.Audio.Duration.Round(time.Second).String()
		}
	}
	if res.NarrationFailure != nil {
		p.NarrationError = res.NarrationFailure.Message
	}
	s.render(w, http.StatusOK, p)
}
