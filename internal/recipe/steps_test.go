package recipe

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/conformalize/conformalize/internal/document"
)

func TestSteps(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		step *document.Map
		want *document.Map
	}{
		"pre-commit with tokens": {
			step: PreCommitStep(SecretToken, SecretToken),
			want: document.MapOf(
				"name", "Run 'pre-commit'",
				"uses", "dycw/action-pre-commit@latest",
				"with", document.MapOf(
					"repos", "dycw/conformalize\npre-commit/pre-commit-hooks",
					"token-checkout", "${{secrets.GITHUB_TOKEN}}",
					"token-uv", "${{secrets.GITHUB_TOKEN}}",
				),
			),
		},
		"publish without inputs omits with": {
			step: PublishStep(PublishStepOptions{}),
			want: document.MapOf("name", "Build and publish package", "uses", "dycw/action-publish@latest"),
		},
		"publish with every input": {
			step: PublishStep(PublishStepOptions{
				TokenCheckout:     "custom",
				Username:          "user",
				Password:          "pass",
				PublishURL:        "https://upload.example.com",
				TrustedPublishing: true,
				NativeTLS:         true,
			}),
			want: document.MapOf(
				"name", "Build and publish package",
				"uses", "dycw/action-publish@latest",
				"with", document.MapOf(
					"token-checkout", "custom",
					"username", "user",
					"password", "pass",
					"publish-url", "https://upload.example.com",
					"trusted-publishing", true,
					"native-tls", true,
				),
			),
		},
		"pyright drops uv token without checkout token": {
			step: PyrightStep("3.13", NoToken, SecretToken),
			want: document.MapOf(
				"name", "Run 'pyright'",
				"uses", "dycw/action-pyright@latest",
				"with", document.MapOf("python-version", "3.13"),
			),
		},
		"pytest uses the matrix": {
			step: PytestStep(NoToken, NoToken),
			want: document.MapOf(
				"name", "Run 'pytest'",
				"uses", "dycw/action-pytest@latest",
				"with", document.MapOf(
					"python-version", "${{matrix.python-version}}",
					"resolution", "${{matrix.resolution}}",
				),
			),
		},
		"ruff with one token": {
			step: RuffStep(NoToken, SecretToken),
			want: document.MapOf(
				"name", "Run 'ruff'",
				"uses", "dycw/action-ruff@latest",
				"with", document.MapOf("token-ruff", "${{secrets.GITHUB_TOKEN}}"),
			),
		},
		"tag without tokens": {
			step: TagStep(NoToken, NoToken),
			want: document.MapOf("name", "Tag latest commit", "uses", "dycw/action-tag@latest"),
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.True(t, document.Equal(tt.want, tt.step), "got %s", document.Format(tt.step))
			assert.Equal(t, tt.want.Keys(), tt.step.Keys())
		})
	}
}

func TestPreCommitStep_RepoListIsBlock(t *testing.T) {
	t.Parallel()

	with, _ := PreCommitStep(NoToken, NoToken).Get("with")
	repos, _ := with.(*document.Map).Get("repos")
	assert.IsType(t, document.Block(""), repos)
}
