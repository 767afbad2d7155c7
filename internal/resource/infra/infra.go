// Package infra registers the infrastructure kinds. Join tokens are the
// odd one out: the removing state is "revoked" rather than "absent", and
// a token the API still returns with status REVOKED already counts as
// removed.
package infra

import (
	"github.com/bloxops/b1apply/internal/bloxone"
	"github.com/bloxops/b1apply/internal/resource"
	"github.com/bloxops/b1apply/internal/schema"
)

func init() {
	resource.Register(joinToken)
}

var joinToken = resource.Definition{
	Kind:             "infra/join_token",
	APIPath:          "/api/infra/v1/jointoken",
	IdentityFields:   []string{"name"},
	ReadOnlyOnUpdate: []string{"name", "description"},
	AbsentState:      "revoked",
	Removed: func(obj bloxone.Object) bool {
		status, _ := obj["status"].(string)
		return status == "REVOKED"
	},
	Schema: schema.Schema{
		"name":        {Type: schema.String, Required: true},
		"description": {Type: schema.String},
		"expires_at":  {Type: schema.String},
		"tags":        {Type: schema.Dict},
	},
}
