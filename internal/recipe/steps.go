package recipe

import (
	"github.com/conformalize/conformalize/internal/document"
)

// Token is the value of a token input of a workflow step. NoToken omits the
// input.
type Token string

const (
	NoToken Token = ""
	// SecretToken refers to the token GitHub provides to every workflow run.
	SecretToken Token = "${{secrets.GITHUB_TOKEN}}"
)

func addToken(with *document.Map, key string, token Token) {
	if token != NoToken {
		with.Set(key, string(token))
	}
}

func step(name, uses string, with *document.Map, always bool) *document.Map {
	out := document.MapOf("name", name, "uses", uses)
	if always || with.Len() > 0 {
		out.Set("with", with)
	}
	return out
}

// PreCommitStep runs pre-commit through dycw/action-pre-commit.
func PreCommitStep(tokenCheckout, tokenUV Token) *document.Map {
	with := document.MapOf("repos", document.Block("dycw/conformalize\npre-commit/pre-commit-hooks"))
	addToken(with, "token-checkout", tokenCheckout)
	addToken(with, "token-uv", tokenUV)
	return step("Run 'pre-commit'", "dycw/action-pre-commit@latest", with, true)
}

// PublishStepOptions are the inputs of dycw/action-publish.
type PublishStepOptions struct {
	TokenCheckout     Token
	TokenUV           Token
	Username          string
	Password          string
	PublishURL        string
	TrustedPublishing bool
	NativeTLS         bool
}

// PublishStep builds and publishes the package.
func PublishStep(opts PublishStepOptions) *document.Map {
	with := document.NewMap()
	addToken(with, "token-checkout", opts.TokenCheckout)
	addToken(with, "token-uv", opts.TokenUV)
	if opts.Username != "" {
		with.Set("username", opts.Username)
	}
	if opts.Password != "" {
		with.Set("password", opts.Password)
	}
	if opts.PublishURL != "" {
		with.Set("publish-url", opts.PublishURL)
	}
	if opts.TrustedPublishing {
		with.Set("trusted-publishing", true)
	}
	if opts.NativeTLS {
		with.Set("native-tls", true)
	}
	return step("Build and publish package", "dycw/action-publish@latest", with, false)
}

// PyrightStep type checks with pyright. Tokens are only passed on when a
// checkout token is given.
func PyrightStep(pythonVersion string, tokenCheckout, tokenUV Token) *document.Map {
	with := document.MapOf("python-version", pythonVersion)
	if tokenCheckout != NoToken {
		addToken(with, "token-checkout", tokenCheckout)
		addToken(with, "token-uv", tokenUV)
	}
	return step("Run 'pyright'", "dycw/action-pyright@latest", with, true)
}

// PytestStep runs the test suite for one cell of the job matrix.
func PytestStep(tokenCheckout, tokenUV Token) *document.Map {
	with := document.MapOf(
		"python-version", "${{matrix.python-version}}",
		"resolution", "${{matrix.resolution}}",
	)
	addToken(with, "token-checkout", tokenCheckout)
	addToken(with, "token-uv", tokenUV)
	return step("Run 'pytest'", "dycw/action-pytest@latest", with, true)
}

// RuffStep lints and formats with ruff.
func RuffStep(tokenCheckout, tokenRuff Token) *document.Map {
	with := document.NewMap()
	addToken(with, "token-checkout", tokenCheckout)
	addToken(with, "token-ruff", tokenRuff)
	return step("Run 'ruff'", "dycw/action-ruff@latest", with, false)
}

// TagStep tags the latest commit with its version.
func TagStep(tokenCheckout, tokenUV Token) *document.Map {
	with := document.NewMap()
	addToken(with, "token-checkout", tokenCheckout)
	addToken(with, "token-uv", tokenUV)
	return step("Tag latest commit", "dycw/action-tag@latest", with, false)
}
