package approval

import "strings"

// safePathPrefixes are directories where destructive file operations may be
// auto-approved. Exact prefix match.
var safePathPrefixes = []string{
	"/tmp/",
	"/var/tmp/",
	"./execution_sandbox/",
	"./assets/",
	"./docs/",
}

// dangerousCodePatterns mark code as unsafe on a case-insensitive
// substring match.
var dangerousCodePatterns = []string{
	"import os",
	"import subprocess",
	"import sys",
	"import shutil",
	"import socket",
	"import requests",
	"urllib",
	"eval(",
	"exec(",
	"__import__",
	"open(",
	"file(",
	"input(",
	"raw_input(",
}

// benignCodeMarkers: at least one must appear for code to be auto-approved.
var benignCodeMarkers = []string{"print(", "return", "def ", "class "}

// controlFlowTokens: code containing any of these is never auto-approved.
var controlFlowTokens = []string{"for", "while", "if", "try"}

// IsSafeOperation is the secondary, more granular check used to auto-approve
// an operation even though policy nominally requires confirmation. It never
// replaces the policy gate; it only bypasses the human round-trip for
// operations matching a known-safe shape. Everything unrecognized is unsafe.
func IsSafeOperation(req Request) bool {
	// Read operations are always safe
	switch req.OperationType {
	case "read", "list", "get", "view":
		return true
	}

	switch req.ToolName {
	case "FileSystemTool":
		switch req.OperationType {
		case "read":
			return true
		case "delete":
			path, _ := req.Parameters["path"].(string)
			return isSafePath(path)
		case "copy":
			source, _ := req.Parameters["source_path"].(string)
			dest, _ := req.Parameters["dest_path"].(string)
			return isSafePath(source) && isSafePath(dest)
		}

	case "CodeExecutorTool":
		code, _ := req.Parameters["code"].(string)
		return isSafeCode(code)

	case "GitManagerTool":
		op, _ := req.Parameters["operation"].(string)
		switch op {
		case "status", "log", "show":
			return true
		}

	case "DockerBuilderTool":
		op, _ := req.Parameters["operation"].(string)
		switch op {
		case "build", "test":
			return true
		}
	}

	// Unknown or potentially dangerous: require confirmation
	return false
}

// isSafePath reports whether a file path is inside one of the allow-listed
// scratch directories.
func isSafePath(path string) bool {
	for _, prefix := range safePathPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// isSafeCode is a crude lexical filter, not a parser. It rejects anything
// touching the OS or network, then accepts only trivially simple snippets:
// at least one benign marker and no control flow. False positives and
// negatives are expected; the sandbox is the real boundary.
func isSafeCode(code string) bool {
	lower := strings.ToLower(code)
	for _, pattern := range dangerousCodePatterns {
		if strings.Contains(lower, pattern) {
			return false
		}
	}

	hasBenign := false
	for _, marker := range benignCodeMarkers {
		if strings.Contains(code, marker) {
			hasBenign = true
			break
		}
	}

	for _, token := range controlFlowTokens {
		if strings.Contains(code, token) {
			return false
		}
	}

	return hasBenign
}
