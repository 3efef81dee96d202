package config

import (
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateValue(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		key      string
		value    string
		want     any
		wantType ConfigValueType
		wantErr  string
	}{
		"bool true":          {key: "ruff", value: "true", want: true, wantType: TypeBool},
		"bool mixed case":    {key: "ruff", value: "FALSE", want: false, wantType: TypeBool},
		"bool invalid":       {key: "ruff", value: "1", wantErr: "invalid boolean"},
		"int":                {key: "pytest.timeout", value: "600", want: 600, wantType: TypeInt},
		"int negative":       {key: "pytest.timeout", value: "-5", wantErr: "invalid integer"},
		"string":             {key: "description", value: "A demo", want: "A demo", wantType: TypeString},
		"python version":     {key: "python_version", value: "3.10", want: "3.10", wantType: TypePythonVersion},
		"python version bad": {key: "python_version", value: "3.x", wantErr: "invalid Python version"},
		"unknown":            {key: "nope", value: "x", wantErr: "unknown configuration key: nope"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := ValidateValue(tt.key, tt.value)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Parsed)
			assert.Equal(t, tt.wantType, got.Type)
			assert.Equal(t, tt.value, got.Raw)
		})
	}
}

// Every registered key must name a scalar field of Settings, so that
// 'config set' never writes a key that Load ignores.
func TestKnownKeysMatchSettings(t *testing.T) {
	t.Parallel()

	fields := map[string]reflect.Kind{}
	var walk func(prefix string, typ reflect.Type)
	walk = func(prefix string, typ reflect.Type) {
		for i := 0; i < typ.NumField(); i++ {
			f := typ.Field(i)
			name := prefix + f.Tag.Get("koanf")
			ft := f.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				walk(name+".", ft)
				continue
			}
			fields[name] = ft.Kind()
		}
	}
	walk("", reflect.TypeOf(Settings{}))

	for key, schema := range KnownKeys {
		assert.Equal(t, key, schema.Path)
		kind, ok := fields[key]
		if !assert.True(t, ok, "%s is not a Settings field", key) {
			continue
		}
		switch schema.Type {
		case TypeBool:
			assert.Equal(t, reflect.Bool, kind, key)
		case TypeInt:
			assert.Equal(t, reflect.Int, kind, key)
		default:
			assert.Equal(t, reflect.String, kind, key)
		}
	}

	for field, kind := range fields {
		if kind == reflect.Slice {
			continue
		}
		_, ok := KnownKeys[field]
		assert.True(t, ok, "Settings field %s is not registered", field)
	}
}

func TestSortedKeys(t *testing.T) {
	t.Parallel()

	keys := SortedKeys()
	assert.Len(t, keys, len(KnownKeys))
	for i := 1; i < len(keys); i++ {
		assert.Negative(t, strings.Compare(keys[i-1], keys[i]))
	}
}

func TestConfigValueType_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "bool", TypeBool.String())
	assert.Equal(t, "int", TypeInt.String())
	assert.Equal(t, "string", TypeString.String())
	assert.Equal(t, "python-version", TypePythonVersion.String())
	assert.Equal(t, "unknown", ConfigValueType(99).String())
}
