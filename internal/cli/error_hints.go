package cli

import (
	"errors"
	"io/fs"
	"strings"
	"syscall"
)

func hintForBaseURL(err error) string {
	if err == nil {
		return "Pass --base-url or set NIFIMON_BASE_URL, e.g. https://nifi.example.com:8443/nifi-api"
	}
	msg := err.Error()
	if strings.Contains(msg, "scheme") {
		return "Include the scheme, e.g. http://localhost:8080/nifi-api"
	}
	return "Check the URL; try `nifimon config show`"
}

func hintForLogFile(err error) string {
	if err == nil {
		return ""
	}

	if errors.Is(err, fs.ErrPermission) {
		return "The log file is not writable; pass --log-file or set log.file in the config"
	}
	if errors.Is(err, syscall.EISDIR) {
		return "--log-file points at a directory; give a file path"
	}
	if errors.Is(err, syscall.ENOSPC) {
		return "The log volume is full"
	}
	return "Pass --log-file or set NIFIMON_LOG_FILE"
}

func hintForDuration(flag string) string {
	return "Use a Go duration for --" + flag + ", e.g. 30s, 5m or 1h"
}
