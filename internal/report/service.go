// Package report renders transport decisions as PDF documents and delivers
// them to the coordinator chat.
package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/signintech/gopdf"

	"organmatch/internal/transport"
)

// DefaultFontPaths are tried in order when no font path is configured.
var DefaultFontPaths = []string{
	"/usr/share/fonts/ttf-dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
}

const fontName = "DejaVu"

var ErrNoFont = errors.New("no usable font for PDF rendering")

// Sender delivers text and rendered files to a chat.
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	SendDocument(ctx context.Context, chatID int64, data []byte, fileName string) error
}

type Service struct {
	sender    Sender
	chatID    int64
	fontPaths []string
	logger    *slog.Logger
}

// NewService renders with the font at fontPath, or the first of
// DefaultFontPaths that loads. A nil sender or zero chatID disables delivery.
func NewService(sender Sender, chatID int64, fontPath string, logger *slog.Logger) *Service {
	paths := DefaultFontPaths
	if fontPath != "" {
		paths = []string{fontPath}
	}
	return &Service{sender: sender, chatID: chatID, fontPaths: paths, logger: logger}
}

func (s *Service) delivers() bool { return s.sender != nil && s.chatID != 0 }

// Generate renders d and sends it to the coordinator chat when one is
// configured. Delivery failures are logged; the PDF is still returned. When
// rendering fails the coordinator still gets a one-line summary.
func (s *Service) Generate(ctx context.Context, d transport.Decision) ([]byte, error) {
	pdf, err := s.Render(d)
	if err != nil {
		if s.delivers() {
			if sendErr := s.sender.SendMessage(ctx, s.chatID, Summary(d)); sendErr != nil {
				s.logger.Warn("deliver decision summary", "chat_id", s.chatID, "error", sendErr)
			}
		}
		return nil, err
	}
	if s.delivers() {
		if err := s.sender.SendDocument(ctx, s.chatID, pdf, FileName(d)); err != nil {
			s.logger.Warn("deliver decision report", "chat_id", s.chatID, "error", err)
		} else {
			s.logger.Info("decision report delivered", "chat_id", s.chatID)
		}
	}
	return pdf, nil
}

// Summary is the plain-text headline of a decision.
func Summary(d transport.Decision) string {
	return fmt.Sprintf("Transport decision: %s (confidence %d%%, %s risk, source %s)",
		strings.ToUpper(string(d.Recommendation)), d.Confidence, d.RiskLevel, d.Source)
}

// FileName derives the attachment name from the decision timestamp.
func FileName(d transport.Decision) string {
	stamp := strings.NewReplacer(":", "", "-", "").Replace(d.Timestamp)
	if stamp == "" {
		stamp = "undated"
	}
	return fmt.Sprintf("transport_decision_%s.pdf", stamp)
}

// Line is one rendered line of the report.
type Line struct {
	Size float64
	Text string
	Gap  float64
}

// Lines lays out the report content top to bottom.
func Lines(d transport.Decision) []Line {
	c := d.Context
	lines := []Line{
		{Size: 20, Text: "OrganMatch Transport Decision", Gap: 30},
		{Size: 12, Text: "Generated: " + orDash(d.Timestamp), Gap: 15},
		{Size: 12, Text: fmt.Sprintf("Recommendation: %s", strings.ToUpper(string(d.Recommendation))), Gap: 15},
		{Size: 12, Text: fmt.Sprintf("Confidence: %d%%   Risk level: %s   Source: %s", d.Confidence, d.RiskLevel, d.Source), Gap: 25},
		{Size: 14, Text: "Case", Gap: 15},
		{Size: 11, Text: fmt.Sprintf("Organ: %s   Condition score: %.0f", c.Organ.OrganType(), c.ConditionScore), Gap: 12},
		{Size: 11, Text: fmt.Sprintf("Route: %s -> %s", orDash(c.Route.Origin.City), orDash(c.Route.Destination.City)), Gap: 12},
		{Size: 11, Text: fmt.Sprintf("Flight: %s %s", orDash(c.Flight.Flight), c.Flight.Duration), Gap: 12},
		{Size: 11, Text: fmt.Sprintf("Severity: %s   Match score: %.1f%%", orDash(c.Severity), c.MatchScore), Gap: 12},
	}
	if c.RecipientID != "" {
		lines = append(lines, Line{Size: 11, Text: "Recipient: " + c.RecipientID, Gap: 12})
	}
	lines = append(lines, Line{Size: 14, Text: "Key factors", Gap: 15})
	for _, f := range d.Factors {
		lines = append(lines, Line{Size: 11, Text: "- " + f, Gap: 12})
	}
	lines = append(lines, Line{Size: 14, Text: "Reasoning", Gap: 15})
	for _, p := range strings.Split(d.Reasoning, "\n") {
		lines = append(lines, Line{Size: 10, Text: p, Gap: 11})
	}
	return lines
}

// Render produces an A4 PDF of the decision.
func (s *Service) Render(d transport.Decision) ([]byte, error) {
	pdf := gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	pdf.AddPage()

	var fontErr error
	loaded := false
	for _, path := range s.fontPaths {
		if err := pdf.AddTTFFont(fontName, path); err != nil {
			fontErr = err
			continue
		}
		loaded = true
		break
	}
	if !loaded {
		return nil, fmt.Errorf("%w: %v", ErrNoFont, fontErr)
	}

	for _, l := range Lines(d) {
		if err := pdf.SetFont(fontName, "", l.Size); err != nil {
			return nil, err
		}
		if l.Text == "" {
			pdf.Br(l.Gap)
			continue
		}
		wrapped, err := pdf.SplitText(l.Text, 500)
		if err != nil {
			wrapped = []string{l.Text}
		}
		for _, w := range wrapped {
			if pdf.GetY() > 800 {
				pdf.AddPage()
			}
			if err := pdf.Cell(nil, w); err != nil {
				return nil, err
			}
			pdf.Br(l.Gap)
		}
	}

	var buf bytes.Buffer
	if _, err := pdf.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
