// Package medication recognizes drug mentions and dosing context in
// guideline text using layered pattern strategies.
package medication

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/clinicalaide/stgkb/internal/guideline"
)

// knownMedications is the fixed vocabulary both strategies match
// against, drawn from the formulary the guidelines prescribe from.
var knownMedications = []string{
	"paracetamol", "amoxicillin", "artemether-lumefantrine",
	"artesunate", "quinine", "ors", "zinc", "metronidazole",
	"ciprofloxacin", "doxycycline", "erythromycin", "gentamicin",
	"ceftriaxone", "benzylpenicillin", "cotrimoxazole", "ibuprofen",
	"aspirin", "diazepam", "omeprazole", "salbutamol", "metformin",
	"amlodipine", "nifedipine", "atenolol", "insulin", "adrenaline",
}

var namePattern = strings.Join(knownMedications, "|")

var (
	// Strategy A: name, optional separator, dose with unit on the same
	// line.
	reSameLine = regexp.MustCompile(`(?i)\b(` + namePattern + `)\b[:,]?[ \t]*(\d+(?:\.\d+)?)[ \t]*(mg|mcg|ml|g|units|l)\b(/kg)?`)
	// Strategy B: any known name as a whole word.
	reNameOnly = regexp.MustCompile(`(?i)\b(` + namePattern + `)\b`)
	// Dose looked up within the window following a name-only hit.
	reDose = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)[ \t]*(mg|mcg|ml|g|units|l)\b(/kg)?`)

	reDuration   = regexp.MustCompile(`(?i)\bfor\s+(\d+)\s*(?:day|week|month)s?\b`)
	reEveryHours = regexp.MustCompile(`(?i)\bevery\s+\d+\s*hours?\b`)
	reContra     = regexp.MustCompile(`(?i)contraindications?:\s*([^\n]+)`)
	reSideFx     = regexp.MustCompile(`(?i)(?:common\s+)?side\s+effects?:\s*([^\n]+)`)
)

var routeVocab = []struct {
	pattern *regexp.Regexp
	route   string
}{
	{regexp.MustCompile(`(?i)\b(?:oral(?:ly)?|po)\b`), "oral"},
	{regexp.MustCompile(`(?i)\b(?:iv|intravenous(?:ly)?)\b`), "IV"},
	{regexp.MustCompile(`(?i)\b(?:im|intramuscular(?:ly)?)\b`), "IM"},
	{regexp.MustCompile(`(?i)\btopical(?:ly)?\b`), "topical"},
	{regexp.MustCompile(`(?i)\brectal(?:ly)?\b`), "rectal"},
	{regexp.MustCompile(`(?i)\binhaled\b`), "inhaled"},
	{regexp.MustCompile(`(?i)\bsublingual(?:ly)?\b`), "sublingual"},
}

var frequencyVocab = []struct {
	pattern   *regexp.Regexp
	frequency string
}{
	{regexp.MustCompile(`(?i)\bstat\b`), "stat"},
	{regexp.MustCompile(`(?i)\bbd\b`), "bd"},
	{regexp.MustCompile(`(?i)\btid\b`), "tid"},
	{regexp.MustCompile(`(?i)\bqid\b`), "qid"},
	{regexp.MustCompile(`(?i)\bq6h\b`), "q6h"},
	{regexp.MustCompile(`(?i)\bonce\s+daily\b`), "once daily"},
	{regexp.MustCompile(`(?i)\btwice\s+daily\b`), "twice daily"},
	{regexp.MustCompile(`(?i)\bthree\s+times\s+daily\b`), "three times daily"},
}

// contextBytes is how far past a name mention the supplementary
// patterns (duration, route, frequency, contraindication and
// side-effect headers) are searched.
const contextBytes = 300

// doseWindowBytes is the strategy B lookahead for a dose after a
// name-only hit.
const doseWindowBytes = 50

type mention struct {
	name   string
	dosage string
	pos    int
}

// Extract returns the medications recognized in text, deduplicated by
// the (name, dosage) pair. Strategy B (name-only with windowed dose
// lookup) runs only when strategy A (same-line dose) finds nothing.
func Extract(text string) []guideline.Medication {
	mentions := sameLineMentions(text)
	if len(mentions) == 0 {
		mentions = windowedMentions(text)
	}

	var meds []guideline.Medication
	seen := make(map[string]bool)
	for _, m := range mentions {
		key := m.name + "\x00" + m.dosage
		if seen[key] {
			continue
		}
		seen[key] = true

		window := contextWindow(text, m.pos)
		med := guideline.Medication{
			Name:              m.name,
			Dosage:            m.dosage,
			Duration:          extractDuration(window),
			Route:             extractRoute(window),
			Frequency:         extractFrequency(window),
			Contraindications: splitList(firstGroup(reContra, window)),
			SideEffects:       splitList(firstGroup(reSideFx, window)),
		}
		meds = append(meds, med)
	}
	return meds
}

func sameLineMentions(text string) []mention {
	var mentions []mention
	for _, idx := range reSameLine.FindAllStringSubmatchIndex(text, -1) {
		name := text[idx[2]:idx[3]]
		dosage := text[idx[4]:idx[5]] + text[idx[6]:idx[7]]
		if idx[8] >= 0 {
			dosage += text[idx[8]:idx[9]]
		}
		mentions = append(mentions, mention{
			name:   capitalize(name),
			dosage: dosage,
			pos:    idx[0],
		})
	}
	return mentions
}

func windowedMentions(text string) []mention {
	var mentions []mention
	for _, idx := range reNameOnly.FindAllStringSubmatchIndex(text, -1) {
		name := text[idx[2]:idx[3]]

		end := min(idx[1]+doseWindowBytes, len(text))
		dosage := ""
		if d := reDose.FindStringSubmatchIndex(text[idx[1]:end]); d != nil {
			window := text[idx[1]:end]
			dosage = window[d[2]:d[3]] + window[d[4]:d[5]]
			if d[6] >= 0 {
				dosage += window[d[6]:d[7]]
			}
		}
		mentions = append(mentions, mention{
			name:   capitalize(name),
			dosage: dosage,
			pos:    idx[0],
		})
	}
	return mentions
}

func contextWindow(text string, pos int) string {
	return text[pos:min(pos+contextBytes, len(text))]
}

func extractDuration(window string) string {
	m := reDuration.FindString(window)
	if m == "" {
		return ""
	}
	d := strings.TrimSpace(strings.TrimPrefix(strings.ToLower(m), "for"))
	return d
}

func extractRoute(window string) string {
	for _, v := range routeVocab {
		if v.pattern.MatchString(window) {
			return v.route
		}
	}
	return ""
}

func extractFrequency(window string) string {
	for _, v := range frequencyVocab {
		if v.pattern.MatchString(window) {
			return v.frequency
		}
	}
	if m := reEveryHours.FindString(window); m != "" {
		return strings.ToLower(m)
	}
	return ""
}

func firstGroup(re *regexp.Regexp, s string) string {
	if m := re.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return ""
}

// splitList breaks a header remainder on commas/semicolons into
// trimmed phrases.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';'
	}) {
		part = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(part), "."))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// capitalize applies the pinned name form: first rune upper, the rest
// lower ("ORS" becomes "Ors").
func capitalize(s string) string {
	if s == "" {
		return s
	}
	s = strings.ToLower(s)
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
