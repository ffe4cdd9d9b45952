package locale

// messages holds interface strings keyed by message id. Index 0 is English,
// index 1 Arabic.
var messages = map[string][2]string{
	"site.name":          {"Centers Guide", "دليل السناتر"},
	"nav.home":           {"Home", "الرئيسية"},
	"nav.centers":        {"Centers", "السناتر"},
	"nav.dashboard":      {"Dashboard", "لوحة التحكم"},
	"nav.admin":          {"Administration", "الإدارة"},
	"nav.login":          {"Sign in", "تسجيل الدخول"},
	"nav.logout":         {"Sign out", "تسجيل الخروج"},
	"nav.language":       {"العربية", "English"},
	"centers.search":     {"Search centers", "ابحث عن سنتر"},
	"centers.empty":      {"No centers match your filters.", "لا توجد سناتر مطابقة."},
	"centers.teachers":   {"Teachers", "المدرسون"},
	"centers.schedule":   {"Weekly schedule", "الجدول الأسبوعي"},
	"centers.subjects":   {"Subjects", "المواد"},
	"centers.phone":      {"Phone", "الهاتف"},
	"centers.address":    {"Address", "العنوان"},
	"filter.governorate": {"Governorate", "المحافظة"},
	"filter.subject":     {"Subject", "المادة"},
	"filter.any":         {"Any", "الكل"},
	"filter.apply":       {"Apply", "تطبيق"},
	"page.prev":          {"Previous", "السابق"},
	"page.next":          {"Next", "التالي"},
	"login.email":        {"Email", "البريد الإلكتروني"},
	"login.password":     {"Password", "كلمة المرور"},
	"login.submit":       {"Sign in", "دخول"},
	"login.center":       {"Center admin sign in", "دخول مدير السنتر"},
	"login.admin":        {"Administrator sign in", "دخول المشرف"},
	"unauthorized.title": {"Access denied", "غير مصرح"},
	"unauthorized.body":  {"Your account cannot open that page.", "حسابك لا يملك صلاحية فتح هذه الصفحة."},
	"form.save":          {"Save", "حفظ"},
	"form.add":           {"Add", "إضافة"},
	"form.delete":        {"Delete", "حذف"},
}

// T returns the interface string id in lang, or id itself when unknown.
func T(lang Lang, id string) string {
	m, ok := messages[id]
	if !ok {
		return id
	}
	if lang == Arabic {
		return m[1]
	}
	return m[0]
}
