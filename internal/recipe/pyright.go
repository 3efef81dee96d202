package recipe

import (
	"github.com/conformalize/conformalize/internal/document"
	"github.com/conformalize/conformalize/internal/edit"
)

// PyrightconfigJSON writes pyrightconfig.json. It checks src, or the script
// alone when one is given.
func PyrightconfigJSON(ws *edit.Workspace, pythonVersion, script string) (edit.State, error) {
	include := "src"
	if script != "" {
		include = script
	}
	return edit.EditJSON(ws, PyrightconfigFile, func(doc *document.Map) error {
		doc.Set("deprecateTypingAliases", true)
		doc.Set("enableReachabilityAnalysis", false)
		doc.Set("include", []string{include})
		doc.Set("pythonVersion", pythonVersion)
		for _, rule := range []struct {
			name string
			on   bool
		}{
			{"reportCallInDefaultInitializer", true},
			{"reportImplicitOverride", true},
			{"reportImplicitStringConcatenation", true},
			{"reportImportCycles", true},
			{"reportMissingSuperCall", true},
			{"reportMissingTypeArgument", false},
			{"reportMissingTypeStubs", false},
			{"reportPrivateImportUsage", false},
			{"reportPrivateUsage", false},
			{"reportPropertyTypeMismatch", true},
			{"reportUninitializedInstanceVariable", true},
			{"reportUnknownArgumentType", false},
			{"reportUnknownMemberType", false},
			{"reportUnknownParameterType", false},
			{"reportUnknownVariableType", false},
			{"reportUnnecessaryComparison", false},
			{"reportUnnecessaryTypeIgnoreComment", true},
			{"reportUnusedCallResult", true},
			{"reportUnusedImport", false},
			{"reportUnusedVariable", false},
		} {
			doc.Set(rule.name, rule.on)
		}
		doc.Set("typeCheckingMode", "strict")
		return nil
	})
}
