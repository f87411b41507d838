// Package gclplugin registers the constantcond analyzer as a golangci-lint
// module plugin.
//
// Add it to `.custom-gcl.yml`:
//
//	version: v1.61.0
//	plugins:
//	  - module: github.com/gnolang/rangelint
//	    import: github.com/gnolang/rangelint/gclplugin
//	    version: latest
//
// and enable it in `.golangci.yml`:
//
//	linters-settings:
//	  custom:
//	    constantcond:
//	      type: module
//	      description: reports if conditions that are always true or false
//	      settings:
//	        symmetric: true
//	        unsigned-type: uint
package gclplugin

import (
	"github.com/golangci/plugin-module-register/register"
	"golang.org/x/tools/go/analysis"

	"github.com/gnolang/rangelint/analyzer"
)

func init() { register.Plugin("constantcond", New) }

// New creates a Plugin from the raw golangci-lint settings.
func New(rawSettings any) (register.LinterPlugin, error) {
	settings, err := register.DecodeSettings[Settings](rawSettings)
	if err != nil {
		return nil, err
	}
	return Plugin{settings: settings}, nil
}

// Plugin is the constantcond linter as a register.LinterPlugin.
type Plugin struct {
	settings Settings
}

// GetLoadMode returns the golangci load mode. The check needs no type
// information.
func (Plugin) GetLoadMode() string {
	return register.LoadModeSyntax
}

func (p Plugin) BuildAnalyzers() ([]*analysis.Analyzer, error) {
	return []*analysis.Analyzer{analyzer.New(p.settings.Options()...)}, nil
}

// Settings are the plugin options. Unset fields keep the analyzer defaults.
type Settings struct {
	Symmetric    *bool   `json:"symmetric,omitempty"`
	UnsignedType *string `json:"unsigned-type,omitempty"`
}

// Options converts the set fields into analyzer options.
func (s Settings) Options() []analyzer.Option {
	var opts []analyzer.Option
	if s.Symmetric != nil {
		opts = append(opts, analyzer.WithSymmetric(*s.Symmetric))
	}
	if s.UnsignedType != nil {
		opts = append(opts, analyzer.WithUnsignedType(*s.UnsignedType))
	}
	return opts
}
