package recipe

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/shlex"

	"github.com/conformalize/conformalize/internal/document"
	"github.com/conformalize/conformalize/internal/edit"
)

// EnvrcOptions configures .envrc.
type EnvrcOptions struct {
	// UV adds the block that activates the uv-managed virtual environment.
	UV bool
	// NativeTLS passes --native-tls to 'uv sync'.
	NativeTLS bool
	// ExtraArgs are appended to 'uv sync' after shell-style splitting.
	ExtraArgs     string
	PythonVersion string
	Script        string
}

const envrcShebang = `#!/usr/bin/env sh
# shellcheck source=/dev/null`

const envrcEcho = `# echo
echo_date() { echo "[$(date +'%Y-%m-%d %H:%M:%S')] $*" >&2; }`

// Envrc writes .envrc. Blocks are appended when missing and never removed.
func Envrc(ws *edit.Workspace, opts EnvrcOptions) (edit.State, error) {
	var uvBlock string
	if opts.UV {
		sync, err := uvSyncCommand(opts)
		if err != nil {
			return edit.Unchanged, err
		}
		uvBlock = fmt.Sprintf(`# uv
export UV_MANAGED_PYTHON='true'
export UV_PRERELEASE='disallow'
export UV_PYTHON='%s'
if ! command -v uv >/dev/null 2>&1; then
    echo_date "ERROR: 'uv' not found" && exit 1
fi
activate='.venv/bin/activate'
if [ -f $activate ]; then
    . $activate
else
    uv venv
fi
%s`, opts.PythonVersion, sync)
	}

	return edit.EditText(ws, EnvrcFile, func(doc *document.Text) error {
		doc.AppendBlock(envrcShebang, 1)
		doc.AppendBlock(envrcEcho, 1)
		if uvBlock != "" {
			doc.AppendBlock(uvBlock, 1)
		}
		return nil
	})
}

func uvSyncCommand(opts EnvrcOptions) (string, error) {
	args := []string{"uv", "sync"}
	if opts.Script == "" {
		args = append(args, "--all-extras", "--all-groups")
	}
	args = append(args, "--active", "--locked")
	if opts.Script != "" {
		args = append(args, "--script", opts.Script)
	}
	if opts.NativeTLS {
		args = append(args, "--native-tls")
	}
	if opts.ExtraArgs != "" {
		extra, err := shlex.Split(opts.ExtraArgs)
		if err != nil {
			return "", fmt.Errorf("parsing uv sync arguments %q: %w", opts.ExtraArgs, err)
		}
		args = append(args, extra...)
	}
	return shellJoin(args), nil
}

var shellSafe = regexp.MustCompile(`^[A-Za-z0-9@%+=:,./_-]+$`)

// shellJoin quotes each argument for a POSIX shell where needed.
func shellJoin(args []string) string {
	quoted := make([]string, len(args))
	for i, a := range args {
		switch {
		case a == "":
			quoted[i] = "''"
		case shellSafe.MatchString(a):
			quoted[i] = a
		default:
			quoted[i] = "'" + strings.ReplaceAll(a, "'", `'"'"'`) + "'"
		}
	}
	return strings.Join(quoted, " ")
}
