package explore

import "strings"

// disciplineFields is the discipline → subdiscipline lookup used to map a
// free-text degree/subject string to a display field label. Order matters:
// the first match wins, so the table is scanned deterministically.
var disciplineFields = []struct {
	Discipline string
	Subs       []string
}{
	{"Computer Science", []string{
		"Artificial Intelligence", "Machine Learning", "Data Science",
		"Cybersecurity", "Software Engineering", "Human-Computer Interaction",
	}},
	{"Engineering", []string{
		"Mechanical Engineering", "Electrical Engineering",
		"Civil Engineering", "Chemical Engineering", "Aerospace Engineering",
	}},
	{"Business", []string{
		"Finance", "Marketing", "Accounting", "Management", "Entrepreneurship",
	}},
	{"Medicine", []string{
		"Nursing", "Public Health", "Pharmacy", "Dentistry", "Biomedical Sciences",
	}},
	{"Natural Sciences", []string{
		"Physics", "Chemistry", "Biology", "Mathematics", "Environmental Science",
	}},
	{"Social Sciences", []string{
		"Psychology", "Sociology", "Political Science", "Economics",
		"International Relations",
	}},
	{"Arts & Humanities", []string{
		"History", "Philosophy", "Literature", "Linguistics", "Design", "Music",
	}},
	{"Law", []string{
		"International Law", "Corporate Law", "Criminal Justice",
	}},
}

// DisplayField maps a free-text degree-level/subject string to a field label.
// A subdiscipline substring match wins over a top-level discipline match;
// with no match the raw string is returned as-is, and an empty input falls
// back to "General Studies".
func DisplayField(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "General Studies"
	}

	lower := strings.ToLower(trimmed)
	disciplineHit := ""
	for _, entry := range disciplineFields {
		for _, sub := range entry.Subs {
			if strings.Contains(lower, strings.ToLower(sub)) {
				return sub
			}
		}
		if disciplineHit == "" && strings.Contains(lower, strings.ToLower(entry.Discipline)) {
			disciplineHit = entry.Discipline
		}
	}
	if disciplineHit != "" {
		return disciplineHit
	}

	return trimmed
}
