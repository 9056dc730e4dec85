package cmd

import "github.com/ardnew/tlisp/lang"

// Command errors share [lang.Error] with the interpreter, so the CLI logs
// every failure the same way and errors.Is matches sentinels from either
// package.
var (
	ErrReadSource  = lang.NewError("read source")
	ErrYAMLMarshal = lang.NewError("marshal YAML")
	ErrWriteConfig = lang.NewError("write configuration file")
	ErrFileExists  = lang.NewError("file exists (use --force to overwrite)")
)
