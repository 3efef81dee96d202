package recipe

import (
	"fmt"
	"strconv"
	"strings"
)

// Latest supported Python release.
const (
	pythonMajor    = 3
	pythonMaxMinor = 14
)

// PythonVersions lists every supported Python version from v up to and
// including 3.14, e.g. "3.12" gives 3.12, 3.13 and 3.14.
func PythonVersions(v string) ([]string, error) {
	majorText, minorText, ok := strings.Cut(strings.TrimSpace(v), ".")
	if !ok {
		return nil, fmt.Errorf("invalid Python version %q: expected MAJOR.MINOR", v)
	}
	major, err := strconv.Atoi(majorText)
	if err != nil {
		return nil, fmt.Errorf("invalid Python version %q: %w", v, err)
	}
	minor, err := strconv.Atoi(minorText)
	if err != nil {
		return nil, fmt.Errorf("invalid Python version %q: %w", v, err)
	}
	if major != pythonMajor {
		return nil, fmt.Errorf("Major versions must be equal; got %d and %d", major, pythonMajor)
	}
	if minor > pythonMaxMinor {
		return nil, fmt.Errorf("Minor version must be at most %d; got %d", pythonMaxMinor, minor)
	}

	out := make([]string, 0, pythonMaxMinor-minor+1)
	for m := minor; m <= pythonMaxMinor; m++ {
		out = append(out, fmt.Sprintf("%d.%d", major, m))
	}
	return out, nil
}
