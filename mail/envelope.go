package mail

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

// ErrUnparseable is returned when the raw payload is not readable text.
var ErrUnparseable = errors.New("email headers could not be parsed")

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// headerLine matches any line that still belongs to the header block: an mbox
// "From " line, a name (printable ASCII without ':') followed by ':', or a
// folded continuation.
var headerLine = regexp.MustCompile(`^(From |[\x21-\x39\x3b-\x7e]*:|[\t ])`)

// IsValidEmail matches local@domain.tld with a purely alphabetic TLD of two or
// more letters. The address is not normalized, so surrounding whitespace or a
// display name makes it invalid.
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// Envelope is the addressing extracted from a raw email's headers.
type Envelope struct {
	From    string
	To      []string
	Cc      []string
	Bcc     []string
	Subject string
}

// ParseEnvelope reads only the header block of raw; any body is ignored.
// Header names match case-insensitively and repeated To/Cc/Bcc headers are
// kept in order of appearance. Absent From or Subject yield "".
//
// Values are taken as sent: only the blanks after the colon and the final line
// ending are removed, so trailing spaces survive into validation. The block
// ends at the first line that cannot be a header, blank or not.
func ParseEnvelope(raw string) (Envelope, error) {
	if !utf8.ValidString(raw) {
		return Envelope{}, ErrUnparseable
	}

	h := scanHeaders(raw)
	return Envelope{
		From:    h.get("From"),
		To:      h.all("To"),
		Cc:      h.all("Cc"),
		Bcc:     h.all("Bcc"),
		Subject: h.get("Subject"),
	}, nil
}

type field struct {
	name  string
	value string
}

type headers []field

func (h headers) get(name string) string {
	for _, f := range h {
		if strings.EqualFold(f.name, name) {
			return f.value
		}
	}
	return ""
}

func (h headers) all(name string) []string {
	out := []string{}
	for _, f := range h {
		if strings.EqualFold(f.name, name) {
			out = append(out, f.value)
		}
	}
	return out
}

func scanHeaders(raw string) headers {
	var (
		out   headers
		name  string
		parts []string
	)
	flush := func() {
		if parts == nil {
			return
		}
		value := strings.TrimRight(strings.Join(parts, ""), "\r\n")
		out = append(out, field{name: name, value: value})
		name, parts = "", nil
	}

	for _, line := range splitLines(raw) {
		if !headerLine.MatchString(line) {
			break
		}
		switch {
		case line[0] == ' ' || line[0] == '\t':
			// A continuation with nothing to continue is dropped.
			if parts != nil {
				parts = append(parts, line)
			}
		case strings.HasPrefix(line, "From "):
			// Envelope line from an mbox dump; never a header.
		default:
			colon := strings.IndexByte(line, ':')
			if colon == 0 {
				continue
			}
			flush()
			name = line[:colon]
			parts = []string{strings.TrimLeft(line[colon+1:], " \t")}
		}
	}
	flush()
	return out
}

// splitLines cuts s after every \r\n, \r or \n, keeping the terminators.
func splitLines(s string) []string {
	var lines []string
	for len(s) > 0 {
		end := strings.IndexAny(s, "\r\n")
		if end < 0 {
			lines = append(lines, s)
			break
		}
		end++
		if s[end-1] == '\r' && end < len(s) && s[end] == '\n' {
			end++
		}
		lines = append(lines, s[:end])
		s = s[end:]
	}
	return lines
}
