// Package catalog imports all resource kind packages to trigger their
// init() registration.
package catalog

import (
	_ "github.com/bloxops/b1apply/internal/resource/dnscfg"
	_ "github.com/bloxops/b1apply/internal/resource/infra"
	_ "github.com/bloxops/b1apply/internal/resource/ipam"
)
