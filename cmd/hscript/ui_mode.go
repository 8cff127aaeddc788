package main

import (
	"fmt"
	"os"
	"strings"
)

// uiMode: значение флага `render --ui` для каталога шаблонов.
type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return uiModeAuto, nil
	case "on":
		return uiModeOn, nil
	case "off":
		return uiModeOff, nil
	default:
		return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
}

// progressEnv: то, от чего зависит auto-режим прогресса рендера.
type progressEnv struct {
	quiet      bool
	diagFormat string
	stdoutTTY  bool
}

func (s *settings) progressEnv() progressEnv {
	return progressEnv{
		quiet:      s.quiet,
		diagFormat: s.diagFormat,
		stdoutTTY:  isTerminal(os.Stdout),
	}
}

// showProgress решает, рисовать ли живой список шаблонов.
// auto: только в терминале, без --quiet и пока stdout не занят json/sarif.
func (m uiMode) showProgress(env progressEnv) bool {
	switch m {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	}
	if env.quiet || !env.stdoutTTY {
		return false
	}
	switch env.diagFormat {
	case "json", "sarif":
		return false
	}
	return true
}
