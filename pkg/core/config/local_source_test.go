package config

import (
	"context"
	"encoding/json"
	"os"
	"path"
	"testing"

	"github.com/bxcodec/faker/v3"
	"github.com/stretchr/testify/assert"
)

func writeConfigFile(t *testing.T, dir string, name string, data map[string]interface{}) bool {
	buffer, err := json.Marshal(data)
	if !assert.NoError(t, err) {
		return false
	}
	return assert.NoError(t, os.WriteFile(path.Join(dir, name), buffer, 0644))
}

func Test_localSource_GetParameters(t *testing.T) {
	type testCase struct {
		name string
		run  func(t *testing.T, dir string)
	}
	tests := []func() testCase{
		func() testCase {
			defaultVal := "default-" + faker.Word()
			return testCase{
				name: "read values from default.json",
				run: func(t *testing.T, dir string) {
					if !writeConfigFile(t, dir, "default.json", map[string]interface{}{
						"log": map[string]interface{}{"logLevel": defaultVal},
					}) {
						return
					}
					source, err := NewLocalSource(LocalOpts.WithDir(dir))
					if !assert.NoError(t, err) {
						return
					}
					p := newStringParam("log/logLevel", "")
					values, err := source.GetParameters(context.TODO(), []param{p})
					if !assert.NoError(t, err) {
						return
					}
					assert.Equal(t, defaultVal, values[p.key()])
				},
			}
		},
		func() testCase {
			defaultVal := "default-" + faker.Word()
			envVal := "env-" + faker.Word()
			return testCase{
				name: "env file overrides default.json",
				run: func(t *testing.T, dir string) {
					if !writeConfigFile(t, dir, "default.json", map[string]interface{}{
						"log": map[string]interface{}{"logLevel": defaultVal},
					}) {
						return
					}
					if !writeConfigFile(t, dir, "staging.json", map[string]interface{}{
						"log": map[string]interface{}{"logLevel": envVal},
					}) {
						return
					}
					source, err := NewLocalSource(
						LocalOpts.WithDir(dir),
						LocalOpts.WithAppEnv(AppEnv{Name: "staging", ServiceName: "ledger-service"}),
					)
					if !assert.NoError(t, err) {
						return
					}
					p := newStringParam("log/logLevel", "")
					values, err := source.GetParameters(context.TODO(), []param{p})
					if !assert.NoError(t, err) {
						return
					}
					assert.Equal(t, envVal, values[p.key()])
				},
			}
		},
		func() testCase {
			envVarName := "LEDGER_TEST_" + faker.Word()
			envVarVal := "os-env-" + faker.Word()
			return testCase{
				name: "os env overrides files",
				run: func(t *testing.T, dir string) {
					if !writeConfigFile(t, dir, "default.json", map[string]interface{}{
						"storage": map[string]interface{}{"driver": "sqlite3"},
					}) {
						return
					}
					if !writeConfigFile(t, dir, "custom-environment-variables.json", map[string]interface{}{
						"storage": map[string]interface{}{"driver": envVarName},
					}) {
						return
					}
					os.Setenv(envVarName, envVarVal)
					defer os.Unsetenv(envVarName)

					source, err := NewLocalSource(LocalOpts.WithDir(dir))
					if !assert.NoError(t, err) {
						return
					}
					p := newStringParam("storage/driver", "")
					values, err := source.GetParameters(context.TODO(), []param{p})
					if !assert.NoError(t, err) {
						return
					}
					assert.Equal(t, envVarVal, values[p.key()])
				},
			}
		},
		func() testCase {
			val := faker.Word()
			return testCase{
				name: "service scoped params resolved from root with ignoreDefaultService",
				run: func(t *testing.T, dir string) {
					if !writeConfigFile(t, dir, "default.json", map[string]interface{}{
						"runtimeEnv": val,
					}) {
						return
					}
					source, err := NewLocalSource(
						LocalOpts.WithDir(dir),
						LocalOpts.WithAppEnv(AppEnv{Name: "test", ServiceName: "ledger-service"}),
						LocalOpts.WithIgnoreDefaultService(),
					)
					if !assert.NoError(t, err) {
						return
					}
					p := newStringParam("runtimeEnv", "ledger-service")
					values, err := source.GetParameters(context.TODO(), []param{p})
					if !assert.NoError(t, err) {
						return
					}
					assert.Equal(t, val, values[p.key()])
				},
			}
		},
	}
	for _, ttFn := range tests {
		tt := ttFn()
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			tt.run(t, dir)
		})
	}
}
