package config

import (
	"testing"

	"github.com/bxcodec/faker/v3"
	"github.com/stretchr/testify/assert"
)

func TestStringVal_setValue(t *testing.T) {
	val := NewStringVal("")
	want := faker.Word()
	if !assert.NoError(t, val.setValue(want)) {
		return
	}
	assert.Equal(t, want, val.Value())

	assert.Error(t, val.setValue(100), "Should reject non string values")
}

func TestIntVal_setValue(t *testing.T) {
	tests := []struct {
		name    string
		input   interface{}
		want    int
		wantErr bool
	}{
		{name: "int", input: 42, want: 42},
		{name: "float64", input: float64(42), want: 42},
		{name: "float32", input: float32(42), want: 42},
		{name: "numeric string", input: "42", want: 42},
		{name: "bad string", input: "forty two", wantErr: true},
		{name: "bool", input: true, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			val := NewIntVal(0)
			err := val.setValue(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			if !assert.NoError(t, err) {
				return
			}
			assert.Equal(t, tt.want, val.Value())
		})
	}
}

func TestBoolVal_setValue(t *testing.T) {
	tests := []struct {
		name    string
		input   interface{}
		want    bool
		wantErr bool
	}{
		{name: "bool", input: true, want: true},
		{name: "bool string", input: "true", want: true},
		{name: "false string", input: "false", want: false},
		{name: "bad string", input: "yep", wantErr: true},
		{name: "int", input: 1, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			val := NewBoolVal(false)
			err := val.setValue(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			if !assert.NoError(t, err) {
				return
			}
			assert.Equal(t, tt.want, val.Value())
		})
	}
}
