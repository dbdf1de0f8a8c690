package main

import (
	"io"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"gopkg.in/natefinch/lumberjack.v2"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func newRotator(path string) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    15, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}
}

// setupLogging tees the standard logger and gin's writers into a rotating
// file when path is set.
func setupLogging(path string) io.Closer {
	if path == "" {
		return nopCloser{}
	}
	rotator := newRotator(path)
	log.SetOutput(io.MultiWriter(os.Stderr, rotator))
	gin.DefaultWriter = io.MultiWriter(os.Stdout, rotator)
	gin.DefaultErrorWriter = io.MultiWriter(os.Stderr, rotator)
	return rotator
}

// setupFileLogging sends logs only to the file, or discards them.
func setupFileLogging(path string) io.Closer {
	if path == "" {
		log.SetOutput(io.Discard)
		return nopCloser{}
	}
	rotator := newRotator(path)
	log.SetOutput(rotator)
	return rotator
}
