package api

import (
	"cartera/config"
)

// SafeErrorMessage keeps internal error details out of client responses in
// release mode.
func SafeErrorMessage(err error, fallback string) string {
	return config.SafeErrorMessage(err, fallback)
}
