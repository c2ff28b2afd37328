// Package vitext provides Vietnamese text normalization for the
// university admissions domain: diacritic restoration for common
// unaccented input, abbreviation expansion, and a lexical gate for
// off-domain queries.
package vitext

import (
	"regexp"
	"strings"
	"unicode"
)

// substitution rewrites every word-bounded match of pattern to "to".
// The table is applied in order: longer, more specific phrases must
// come before their substrings ("an toan thong tin" before "thong tin").
type substitution struct {
	pattern *regexp.Regexp
	to      string
}

func sub(expr, to string) substitution {
	return substitution{pattern: regexp.MustCompile(`\b(?:` + expr + `)\b`), to: to}
}

// substitutions restore diacritics for unaccented Vietnamese that users
// commonly type, and expand chat shorthand and domain abbreviations.
// Voice-to-text output tends to arrive fully unaccented, so the accent
// rows double as a voice transcript fixup.
var substitutions = []substitution{
	// Accent restoration, longest phrases first.
	sub(`an toan thong tin`, "an toàn thông tin"),
	sub(`cong nghe thong tin`, "công nghệ thông tin"),
	sub(`nop ho so`, "nộp hồ sơ"),
	sub(`diem chuan`, "điểm chuẩn"),
	sub(`hoc phi`, "học phí"),
	sub(`hoc bong`, "học bổng"),
	sub(`han chot`, "hạn chót"),
	sub(`thu vien`, "thư viện"),
	sub(`ky tuc xa`, "ký túc xá"),
	sub(`tuyen sinh`, "tuyển sinh"),
	sub(`so sanh`, "so sánh"),
	sub(`viec lam`, "việc làm"),
	sub(`nganh`, "ngành"),
	sub(`hoc`, "học"),

	// Abbreviations. "fpt university" is matched as one unit so an
	// already-expanded query is not expanded twice.
	sub(`fpt university|fptu|fpt`, "fpt university"),
	sub(`ko`, "không"),
	sub(`bn`, "bao nhiêu"),
	sub(`dk`, "điều kiện"),
	sub(`cntt`, "công nghệ thông tin"),
	sub(`attt`, "an toàn thông tin"),
	sub(`qtkd`, "quản trị kinh doanh"),
	sub(`it`, "information technology"),
	sub(`ai`, "artificial intelligence"),
	sub(`se`, "software engineering"),
	sub(`ojt`, "on the job training"),
	sub(`ktx`, "ký túc xá"),
	sub(`hn`, "hà nội"),
	sub(`hcm`, "hồ chí minh"),
}

var (
	// RE2 has no backreferences, so runs of the same character are
	// spelled out per character instead of `([?!.,])\1+`.
	repeatedPunct = regexp.MustCompile(`(\?)\?+|(!)!+|(\.)\.+|(,),+`)
	whitespaceRun = regexp.MustCompile(`\s+`)
)

// Normalize lowercases the query, applies the substitution table,
// collapses repeated punctuation and whitespace, and trims.
// Deterministic and total. Substitutions run before whitespace collapse
// because some expansions introduce spacing.
func Normalize(query string) string {
	if query == "" {
		return ""
	}

	text := strings.ToLower(query)

	for _, s := range substitutions {
		text = s.pattern.ReplaceAllString(text, s.to)
	}

	text = repeatedPunct.ReplaceAllString(text, "$1$2$3$4")
	text = whitespaceRun.ReplaceAllString(text, " ")

	return strings.TrimSpace(text)
}

// offDomainTerms flag queries about topics the assistant does not
// cover: weather, food, finance, sports, entertainment.
var offDomainTerms = []string{
	"thời tiết", "weather", "mưa", "nắng", "trời", "forecast",
	"nấu ăn", "cooking", "món ăn", "recipe", "phở", "cơm",
	"giá vàng", "gold price", "chứng khoán", "stock", "bitcoin",
	"bóng đá", "football", "world cup", "thể thao", "sport",
	"âm nhạc", "music", "ca sĩ", "singer", "bài hát", "song",
	"phim", "movie", "cinema",
}

// inDomainTerms anchor a query to the university domain; their presence
// overrides any off-domain hit.
var inDomainTerms = []string{
	"đại học", "university", "trường", "campus", "sinh viên", "student",
	"học phí", "tuition", "ngành", "major", "chương trình", "program",
	"tuyển sinh", "admission", "điểm chuẩn", "học bổng", "scholarship",
	"ký túc xá", "thư viện", "tín chỉ", "credit", "học kỳ", "semester",
	"fpt",
}

// IsIrrelevant reports whether the normalized query is off-domain:
// it contains an off-domain term and no in-domain term. Used only as a
// gate, never to produce a final classification by itself.
func IsIrrelevant(query string) bool {
	text := Normalize(query)
	if text == "" {
		return true
	}

	for _, term := range inDomainTerms {
		if strings.Contains(text, term) {
			return false
		}
	}
	for _, term := range offDomainTerms {
		if strings.Contains(text, term) {
			return true
		}
	}

	return false
}

// DetectLanguage guesses "vi" or "en" from the ratio of non-ASCII
// letters. Returns "unknown" when the text has no letters.
func DetectLanguage(text string) string {
	var letters, accented int
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if r > unicode.MaxASCII {
			accented++
		}
	}

	if letters == 0 {
		return "unknown"
	}
	if float64(accented)/float64(letters) > 0.1 {
		return "vi"
	}
	return "en"
}

// stopWords are filtered out by ExtractKeywords.
var stopWords = map[string]struct{}{
	"và": {}, "của": {}, "có": {}, "là": {}, "được": {}, "một": {},
	"này": {}, "đó": {}, "cho": {}, "với": {}, "từ": {}, "về": {},
	"như": {}, "khi": {}, "để": {}, "sẽ": {}, "đã": {}, "các": {},
	"những": {}, "rất": {}, "thì": {}, "mà": {}, "ở": {}, "trong": {},
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "in": {},
	"on": {}, "at": {}, "to": {}, "for": {}, "of": {}, "is": {},
	"are": {}, "what": {}, "how": {}, "which": {},
}

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}]+`)

// ExtractKeywords returns up to maxKeywords unique non-stop-words from
// the normalized text, in order of appearance. Used when building
// embedding text for labeled examples.
func ExtractKeywords(text string, maxKeywords int) []string {
	if text == "" {
		return nil
	}

	words := wordPattern.FindAllString(Normalize(text), -1)
	seen := make(map[string]struct{}, len(words))
	keywords := make([]string, 0, maxKeywords)

	for _, w := range words {
		if len([]rune(w)) < 2 {
			continue
		}
		if _, skip := stopWords[w]; skip {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		keywords = append(keywords, w)
		if len(keywords) >= maxKeywords {
			break
		}
	}

	return keywords
}
