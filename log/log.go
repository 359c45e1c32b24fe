// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package log defines the logger interface used by the license scanner.
// Library code logs through the static functions of this package so that
// embedding applications can route messages into their own logging setup.
package log

import (
	"fmt"
	"log"
	"sync"
)

// Logger is the logging interface of the license scanner.
type Logger interface {
	Errorf(format string, args ...any)
	Warnf(format string, args ...any)
	Infof(format string, args ...any)
	Debugf(format string, args ...any)
}

var (
	mu     sync.RWMutex
	logger Logger = &DefaultLogger{}
)

// SetLogger replaces the package-wide logger.
func SetLogger(l Logger) {
	mu.Lock()
	defer mu.Unlock()
	logger = l
}

func current() Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Errorf logs a formatted message at error level.
func Errorf(format string, args ...any) { current().Errorf(format, args...) }

// Warnf logs a formatted message at warning level.
func Warnf(format string, args ...any) { current().Warnf(format, args...) }

// Infof logs a formatted message at info level.
func Infof(format string, args ...any) { current().Infof(format, args...) }

// Debugf logs a formatted message at debug level.
func Debugf(format string, args ...any) { current().Debugf(format, args...) }

// DefaultLogger writes to stderr through the standard Go logger.
// Debug messages are dropped unless Verbose is set.
type DefaultLogger struct {
	Verbose bool
}

// Errorf implements Logger.
func (DefaultLogger) Errorf(format string, args ...any) {
	log.Print("ERROR: " + fmt.Sprintf(format, args...))
}

// Warnf implements Logger.
func (DefaultLogger) Warnf(format string, args ...any) {
	log.Print("WARN: " + fmt.Sprintf(format, args...))
}

// Infof implements Logger.
func (DefaultLogger) Infof(format string, args ...any) {
	log.Printf(format, args...)
}

// Debugf implements Logger.
func (l *DefaultLogger) Debugf(format string, args ...any) {
	if l.Verbose {
		log.Print("DEBUG: " + fmt.Sprintf(format, args...))
	}
}
