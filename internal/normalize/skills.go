package normalize

import (
	"regexp"
	"strings"
	"unicode"
)

// MaxSkills caps the number of skills kept per job.
const MaxSkills = 6

// skillVocabulary is scanned in order; output preserves this order.
var skillVocabulary = []string{
	"python", "tensorflow", "pytorch", "scikit-learn", "pandas", "numpy",
	"aws", "azure", "gcp", "docker", "kubernetes", "sql", "mongodb",
	"spark", "hadoop", "kafka", "airflow", "mlflow", "cuda", "git",
	"transformers", "langchain", "openai", "hugging face", "bert",
	"react", "javascript", "node.js", "java", "scala", "r", "matlab",
	"tableau", "power bi", "jupyter", "anaconda", "linux",
}

// skillMatchers holds one matcher per vocabulary entry. Tokens shorter than
// three characters only match as whole words.
var skillMatchers = func() []func(string) bool {
	out := make([]func(string) bool, len(skillVocabulary))
	for i, skill := range skillVocabulary {
		if len(skill) < 3 {
			re := regexp.MustCompile(`\b` + regexp.QuoteMeta(skill) + `\b`)
			out[i] = re.MatchString
			continue
		}
		out[i] = func(text string) bool { return strings.Contains(text, skill) }
	}
	return out
}()

// ExtractSkills returns up to MaxSkills display-cased skills found in the
// description, in vocabulary order and without duplicates.
func ExtractSkills(description string) []string {
	text := strings.ToLower(description)
	var found []string
	seen := make(map[string]bool)
	for i, skill := range skillVocabulary {
		if len(found) == MaxSkills {
			break
		}
		if !skillMatchers[i](text) {
			continue
		}
		display := titleCase(skill)
		if seen[display] {
			continue
		}
		seen[display] = true
		found = append(found, display)
	}
	return found
}

// titleCase upper-cases every letter that follows a non-letter and
// lower-cases the rest ("node.js" -> "Node.Js", "power bi" -> "Power Bi").
func titleCase(s string) string {
	var b strings.Builder
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
			continue
		}
		b.WriteRune(r)
		prevLetter = false
	}
	return b.String()
}
