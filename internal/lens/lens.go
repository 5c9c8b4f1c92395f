package lens

import "strings"

// Annotation is a read-only preview attached to a marked line.
type Annotation struct {
	Line  int
	Range Range
	// Title is the marker followed by the decrypted text or the failure message.
	Title string
}

// MarkedLines returns the indexes of every line in doc that starts with the marker.
func (s *LensService) MarkedLines(doc TextAccessor) []int {
	var marked []int
	for i := 0; i < doc.LineCount(); i++ {
		l, err := doc.Line(i)
		if err != nil {
			continue
		}
		if strings.HasPrefix(l.Text, s.marker) {
			marked = append(marked, i)
		}
	}
	return marked
}

// Lenses returns a preview for every marked line of doc, decrypted with the
// current session passphrase. It never prompts: without a passphrase each
// preview carries the password-not-set message. Failures show the same text
// as the toggle command.
func (s *LensService) Lenses(doc TextAccessor) []Annotation {
	passphrase, _ := s.session.Passphrase()

	var annotations []Annotation
	for _, idx := range s.MarkedLines(doc) {
		l, err := doc.Line(idx)
		if err != nil {
			continue
		}
		payload := strings.Replace(l.Text, s.marker, "", 1)
		annotations = append(annotations, Annotation{
			Line:  idx,
			Range: l.Range,
			Title: s.marker + DecryptMessage(s.engine, payload, passphrase),
		})
	}
	return annotations
}
