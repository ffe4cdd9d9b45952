package schedules

import (
	"sort"

	"github.com/centersguide/centersguide/internal/locale"
)

type label struct {
	en string
	ar string
}

func (l label) in(lang locale.Lang) string {
	if lang == locale.Arabic {
		return l.ar
	}
	return l.en
}

var subjects = map[string]label{
	"arabic":     {"Arabic", "اللغة العربية"},
	"english":    {"English", "اللغة الإنجليزية"},
	"french":     {"French", "اللغة الفرنسية"},
	"german":     {"German", "اللغة الألمانية"},
	"math":       {"Mathematics", "الرياضيات"},
	"physics":    {"Physics", "الفيزياء"},
	"chemistry":  {"Chemistry", "الكيمياء"},
	"biology":    {"Biology", "الأحياء"},
	"science":    {"Science", "العلوم"},
	"history":    {"History", "التاريخ"},
	"geography":  {"Geography", "الجغرافيا"},
	"philosophy": {"Philosophy", "الفلسفة"},
	"religion":   {"Religion", "التربية الدينية"},
}

var grades = map[string]label{
	"primary_4": {"Primary 4", "الصف الرابع الابتدائي"},
	"primary_5": {"Primary 5", "الصف الخامس الابتدائي"},
	"primary_6": {"Primary 6", "الصف السادس الابتدائي"},
	"prep_1":    {"Preparatory 1", "الصف الأول الإعدادي"},
	"prep_2":    {"Preparatory 2", "الصف الثاني الإعدادي"},
	"prep_3":    {"Preparatory 3", "الصف الثالث الإعدادي"},
	"sec_1":     {"Secondary 1", "الصف الأول الثانوي"},
	"sec_2":     {"Secondary 2", "الصف الثاني الثانوي"},
	"sec_3":     {"Secondary 3", "الصف الثالث الثانوي"},
}

// SubjectLabel returns the display name of a subject code, or the code itself when unknown.
func SubjectLabel(code string, lang locale.Lang) string {
	if l, ok := subjects[code]; ok {
		return l.in(lang)
	}
	return code
}

// GradeLabel returns the display name of a grade code, or the code itself when unknown.
func GradeLabel(code string, lang locale.Lang) string {
	if l, ok := grades[code]; ok {
		return l.in(lang)
	}
	return code
}

// KnownSubject reports whether code is a listed subject.
func KnownSubject(code string) bool {
	_, ok := subjects[code]
	return ok
}

// KnownGrade reports whether code is a listed grade.
func KnownGrade(code string) bool {
	_, ok := grades[code]
	return ok
}

// SubjectCodes lists subject codes in stable order.
func SubjectCodes() []string {
	return sortedKeys(subjects)
}

// GradeCodes lists grade codes in stable order.
func GradeCodes() []string {
	return sortedKeys(grades)
}

func sortedKeys(m map[string]label) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
