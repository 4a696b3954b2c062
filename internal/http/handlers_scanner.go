package http

import (
	"net/http"
	"unicode/utf8"

	"moneytrack/internal/log"
	"moneytrack/internal/scanner"
)

const maxScanText = 2048

// handleScanConstraints tells the client which camera mode to request.
func (s *Server) handleScanConstraints(w http.ResponseWriter, r *http.Request) {
	NewHTMXResponse().JSON(scanner.DefaultConstraints()).Write(w)
}

// handleScanResult acknowledges a decoded code. The scan is a demo: the text
// is echoed back and never recorded as a payment.
func (s *Server) handleScanResult(w http.ResponseWriter, r *http.Request) {
	p, ok := parseBody(w, r)
	if !ok {
		return
	}
	text := p.Get("text")
	if text == "" {
		BadRequestError("No QR code content received").Write(w)
		return
	}
	if utf8.RuneCountInString(text) > maxScanText {
		BadRequestError("QR code content is too long").Write(w)
		return
	}

	res := scanner.Result{Text: text, ScannedAt: s.now()}
	log.FromContext(r.Context()).WithComponent(log.ComponentScanner).InfoContext(r.Context(), "QR code scanned",
		"text_length", len(text))

	NewHTMXResponse().
		TriggerSuccessNotification("✅ QR Code scanned successfully!", "Demo scan completed (no real payment integration)").
		JSON(res).
		Write(w)
}

// handleScanError maps a camera failure reported by the client onto the
// message shown to the user.
func (s *Server) handleScanError(w http.ResponseWriter, r *http.Request) {
	p, ok := parseBody(w, r)
	if !ok {
		return
	}
	camErr := scanner.Classify(p.Get("name"), p.Get("message"))
	msg := scanner.Message(camErr)

	log.FromContext(r.Context()).WithComponent(log.ComponentScanner).WarnContext(r.Context(), "Camera failed",
		log.FieldError, camErr.Error(),
		log.FieldErrorType, log.ErrorTypeDevice,
		log.FieldKind, camErr.Kind.String())

	NewHTMXResponse().
		TriggerErrorNotification("Camera error", msg).
		JSON(map[string]string{
			"kind":    camErr.Kind.String(),
			"message": msg,
		}).
		Write(w)
}
