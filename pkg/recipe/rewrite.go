package recipe

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Update describes the recipe changes for a new release: the version to pin,
// the recipe's package name (for expanding url templates), and the fresh
// checksums. Checksum keys are either platform labels (recipe.yaml) or full
// artifact URLs (meta.yaml); missing checksums leave the old hash in place.
type Update struct {
	Version   string
	Name      string
	Checksums map[string]string
}

var (
	buildNumberRE = regexp.MustCompile(`^(\s+number:\s*)\d+`)
	sha256LineRE  = regexp.MustCompile(`^(\s+sha256:\s*)[a-fA-F0-9]{64}`)
	urlLineRE     = regexp.MustCompile(`url:\s*(\S+)`)

	ifUnixRE     = regexp.MustCompile(`if:\s*unix`)
	ifWin64RE    = regexp.MustCompile(`if:\s*target_platform\s*==\s*"win-64"`)
	ifWinArm64RE = regexp.MustCompile(`if:\s*target_platform\s*==\s*"win-arm64"`)
)

// Rewrite applies the update to the feedstock's recipe file in place,
// touching only the version line, build number lines (reset to 0) and sha256
// lines. All other formatting survives byte for byte. It returns the paths
// of the files it changed, relative to the feedstock root.
func Rewrite(dir string, up Update) ([]string, error) {
	variant, err := Detect(dir)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(dir, variant.Path())
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	lines := strings.Split(string(content), "\n")
	switch variant {
	case RecipeYAML:
		lines = rewriteRecipeYAML(lines, up)
	case MetaYAML:
		lines = rewriteMetaYAML(lines, up)
	}

	updated := strings.Join(lines, "\n")
	if updated == string(content) {
		return nil, nil
	}
	if err := os.WriteFile(path, []byte(updated), 0644); err != nil {
		return nil, err
	}
	return []string{variant.Path()}, nil
}

// rewriteRecipeYAML handles the newer format, where checksum selection is
// driven by the platform conditionals preceding each sha256 line.
func rewriteRecipeYAML(lines []string, up Update) []string {
	out := make([]string, 0, len(lines))
	platform := ""
	for _, line := range lines {
		switch {
		case recipeVersionRE.MatchString(line):
			line = recipeVersionRE.ReplaceAllString(line, "${1}"+up.Version)
		case buildNumberRE.MatchString(line):
			line = buildNumberRE.ReplaceAllString(line, "${1}0")
		case ifUnixRE.MatchString(line):
			platform = "unix"
		case ifWin64RE.MatchString(line):
			platform = "win-x64"
		case ifWinArm64RE.MatchString(line):
			platform = "win-arm64"
		case sha256LineRE.MatchString(line) && platform != "":
			if sum, ok := up.Checksums[platform]; ok {
				line = sha256LineRE.ReplaceAllString(line, "${1}"+sum)
			}
		}
		out = append(out, line)
	}
	return out
}

// rewriteMetaYAML handles the Jinja format, where each sha256 line belongs
// to the nearest url line above it.
func rewriteMetaYAML(lines []string, up Update) []string {
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		switch {
		case metaVersionRE.MatchString(line):
			line = metaVersionRE.ReplaceAllString(line, "${1}"+up.Version+"${3}")
		case buildNumberRE.MatchString(line):
			line = buildNumberRE.ReplaceAllString(line, "${1}0")
		case sha256LineRE.MatchString(line):
			if sum, ok := checksumForURL(precedingURL(lines, i, up), up.Checksums); ok {
				line = sha256LineRE.ReplaceAllString(line, "${1}"+sum)
			}
		}
		out = append(out, line)
	}
	return out
}

// checksumForURL resolves the checksum for a source url. Download-mode sums
// are keyed by the full artifact url; manifest-mode sums by platform label,
// where a label occurring in the url (win-x64, win-arm64) selects it and the
// unix label covers the plain source tarball. A windows artifact url never
// falls back to the unix sum.
func checksumForURL(url string, sums map[string]string) (string, bool) {
	if url == "" {
		return "", false
	}
	if sum, ok := sums[url]; ok {
		return sum, true
	}
	for label, sum := range sums {
		if label != "unix" && strings.Contains(url, label) {
			return sum, true
		}
	}
	if !strings.Contains(url, "win") {
		if sum, ok := sums["unix"]; ok {
			return sum, true
		}
	}
	return "", false
}

// precedingURL scans up to ten lines backwards for a url entry and expands
// its template variables with the new version and package name.
func precedingURL(lines []string, i int, up Update) string {
	for j := i - 1; j >= 0 && j >= i-10; j-- {
		m := urlLineRE.FindStringSubmatch(lines[j])
		if m == nil {
			continue
		}
		url := m[1]
		for _, repl := range [][2]string{
			{"{{ version }}", up.Version},
			{"{{version}}", up.Version},
			{"{{ name }}", up.Name},
			{"{{name}}", up.Name},
		} {
			url = strings.ReplaceAll(url, repl[0], repl[1])
		}
		return url
	}
	return ""
}
