// Package defaults holds some commonly used options parsed from env var "rasterize".
// Set them will set the default value of options used by rasterize.
// Each value is separated by a ",", key and value are separated by "=",
// For example:
//
//	rasterize=show,trace
//
//	rasterize=engine=chromedp,bin=/usr/bin/chromium,remote=ws://127.0.0.1:9222
package defaults

import (
	"fmt"
	"os"
	"strings"
)

// EnvName of the env var to read the options from
const EnvName = "rasterize"

// Show is the default of engine.Rod.Headless and engine.Chromedp.Headless
var Show bool

// Trace enables the trace log of the engine
var Trace bool

// Bin is the default browser executable path
var Bin string

// Dir is the default user data dir of the launched browser
var Dir string

// Remote is the default devtools url to connect to instead of launching a browser
var Remote string

// Engine is the default engine name
var Engine string

// Parse the flags
func init() {
	ResetWithEnv()
}

// Reset all flags to their init values.
func Reset() {
	Show = false
	Trace = false
	Bin = ""
	Dir = ""
	Remote = ""
	Engine = "rod"
}

// ResetWithEnv all flags by the value of the rasterize env var.
// Unknown options are ignored so that a bad env var never breaks the cli.
func ResetWithEnv() {
	Reset()
	_ = Parse(os.Getenv(EnvName))
}

// Parse options and set them globally
func Parse(options string) error {
	if options == "" {
		return nil
	}

	for _, f := range strings.Split(options, ",") {
		kv := strings.SplitN(f, "=", 2)
		rule, has := rules[kv[0]]
		if !has {
			return fmt.Errorf("no such rasterize option: %s", kv[0])
		}
		if len(kv) == 2 {
			rule(kv[1])
		} else {
			rule("")
		}
	}

	return nil
}

var rules = map[string]func(string){
	"show": func(string) {
		Show = true
	},
	"trace": func(string) {
		Trace = true
	},
	"bin": func(v string) {
		Bin = v
	},
	"dir": func(v string) {
		Dir = v
	},
	"remote": func(v string) {
		Remote = v
	},
	"engine": func(v string) {
		if v != "" {
			Engine = v
		}
	},
}
