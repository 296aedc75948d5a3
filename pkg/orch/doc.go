// Package orch implements the build/test/lint orchestration for a workspace
// of independently buildable units. It discovers units by scanning for
// manifest files, drives the configured toolchain through mvdan.cc/sh for
// portable command execution and keeps per-unit logs and build stamps so
// failures can be diagnosed after the fact.
package orch
