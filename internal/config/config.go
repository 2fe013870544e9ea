// Package config declares the options tree of the harness. Values are bound
// from the command line by lazyargs.
package config

import (
	"github.com/roach88/e2e2d/internal/driver"
)

// Browser groups the options handed to the browser launcher. Its flags live
// under the "pw." prefix.
type Browser struct {
	Headless bool   `doc:"Run the browser without a window"`
	SlowMo   int    `short:"s" doc:"Delay in ms between browser operations"`
	ScreenX  int    `doc:"Viewport width"`
	ScreenY  int    `doc:"Viewport height"`
	Bin      string `doc:"Browser binary (empty lets the launcher pick)"`
}

// Config is the harness configuration.
type Config struct {
	OutputFolder string  `short:"o" doc:"The output folder for the documentation"`
	Screenshots  bool    `doc:"Capture before/highlight/after screenshots"`
	History      string  `doc:"SQLite database recording run history (empty disables)"`
	Verbose      bool    `short:"v" doc:"Debug logging and full error detail"`
	PW           Browser `flag:"pw"`
}

// Default returns the configuration used when no flags are given.
func Default() *Config {
	return &Config{
		OutputFolder: "e2e2documentation",
		Screenshots:  true,
		PW: Browser{
			SlowMo:  300,
			ScreenX: 1920,
			ScreenY: 1080,
		},
	}
}

// DriverOptions translates the browser group into launcher options.
func (c *Config) DriverOptions() driver.Options {
	return driver.Options{
		Headless: c.PW.Headless,
		SlowMoMs: c.PW.SlowMo,
		Width:    c.PW.ScreenX,
		Height:   c.PW.ScreenY,
		Bin:      c.PW.Bin,
	}
}
