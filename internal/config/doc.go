// Package config loads tabalign settings.
//
// Settings come from four layers, highest priority last:
//
//	defaults      built into the binary
//	file          --config FILE, TOML or YAML by extension
//	environment   TABALIGN_* variables
//	arguments     command line flags
//
// Recognized settings:
//
//	[editor]
//	tabSize = 4            # visual width of a tab in cursor mode
//
//	[align]
//	timeout = "10s"        # wall-clock allowance per command, 0 disables
//	maxIterations = 0      # loop iteration cap per command, 0 disables
//
//	[logging]
//	level = "info"         # debug, info, warn or error
//
// Environment variables use either the short names TABALIGN_TAB_SIZE,
// TABALIGN_TIMEOUT, TABALIGN_MAX_ITERATIONS and TABALIGN_LOG_LEVEL, or the
// generic form TABALIGN_<SECTION>_<SETTING>, for example
// TABALIGN_ALIGN_MAX_ITERATIONS.
//
// Basic usage:
//
//	cfg, err := config.Load(config.WithFile(path))
//	if err != nil {
//	    return err
//	}
//	aligner := align.New(host, align.WithBudget(cfg.Budget()))
package config
