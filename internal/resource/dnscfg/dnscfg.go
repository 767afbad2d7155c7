// Package dnscfg registers the DNS configuration kinds: views, zones,
// delegations, and name server groups.
package dnscfg

import (
	"github.com/bloxops/b1apply/internal/resource"
	"github.com/bloxops/b1apply/internal/schema"
)

func init() {
	resource.Register(view)
	resource.Register(authZone)
	resource.Register(forwardZone)
	resource.Register(delegation)
	resource.Register(authNSG)
}

// externalServer is the {address, fqdn} pair used by primaries,
// secondaries, and forwarders.
var externalServer = schema.Field{
	Type: schema.Dict,
	Fields: schema.Schema{
		"address": {Type: schema.String},
		"fqdn":    {Type: schema.String},
		"type":    {Type: schema.String},
	},
}

var view = resource.Definition{
	Kind:           "dns/view",
	APIPath:        "/api/ddi/v1/dns/view",
	IdentityFields: []string{"name"},
	Schema: schema.Schema{
		"name":           {Type: schema.String, Required: true},
		"comment":        {Type: schema.String},
		"disabled":       {Type: schema.Bool},
		"dnssec_enabled": {Type: schema.Bool},
		"ecs_enabled":    {Type: schema.Bool},
		"tags":           {Type: schema.Dict},
	},
}

var authZone = resource.Definition{
	Kind:             "dns/auth_zone",
	APIPath:          "/api/ddi/v1/dns/auth_zone",
	IdentityFields:   []string{"fqdn"},
	ReadOnlyOnUpdate: []string{"fqdn", "primary_type"},
	Schema: schema.Schema{
		"fqdn": {Type: schema.String, Required: true},
		"primary_type": {
			Type:    schema.String,
			Choices: []string{"cloud", "external"},
			Default: "cloud",
		},
		"view":     {Type: schema.String},
		"comment":  {Type: schema.String},
		"disabled": {Type: schema.Bool},
		"tags":     {Type: schema.Dict},
		"external_primaries": {
			Type: schema.List,
			Elem: &externalServer,
		},
		"internal_secondaries": {
			Type: schema.List,
			Elem: &schema.Field{
				Type: schema.Dict,
				Fields: schema.Schema{
					"host": {Type: schema.String},
				},
			},
		},
		"nsgs": {
			Type: schema.List,
			Elem: &schema.Field{Type: schema.String},
		},
	},
}

var forwardZone = resource.Definition{
	Kind:             "dns/forward_zone",
	APIPath:          "/api/ddi/v1/dns/forward_zone",
	IdentityFields:   []string{"fqdn"},
	ReadOnlyOnUpdate: []string{"fqdn"},
	Schema: schema.Schema{
		"fqdn":         {Type: schema.String, Required: true},
		"view":         {Type: schema.String},
		"comment":      {Type: schema.String},
		"disabled":     {Type: schema.Bool},
		"forward_only": {Type: schema.Bool},
		"tags":         {Type: schema.Dict},
		"hosts": {
			Type: schema.List,
			Elem: &schema.Field{Type: schema.String},
		},
		"external_forwarders": {
			Type: schema.List,
			Elem: &externalServer,
		},
		"nsgs": {
			Type: schema.List,
			Elem: &schema.Field{Type: schema.String},
		},
	},
}

var delegation = resource.Definition{
	Kind:             "dns/delegation",
	APIPath:          "/api/ddi/v1/dns/delegation",
	IdentityFields:   []string{"fqdn"},
	ReadOnlyOnUpdate: []string{"fqdn", "view"},
	Schema: schema.Schema{
		"fqdn":     {Type: schema.String, Required: true},
		"view":     {Type: schema.String},
		"comment":  {Type: schema.String},
		"disabled": {Type: schema.Bool},
		"tags":     {Type: schema.Dict},
		"delegation_servers": {
			Type: schema.List,
			Elem: &externalServer,
		},
	},
}

var authNSG = resource.Definition{
	Kind:           "dns/auth_nsg",
	APIPath:        "/api/ddi/v1/dns/auth_nsg",
	IdentityFields: []string{"name"},
	Schema: schema.Schema{
		"name":    {Type: schema.String, Required: true},
		"comment": {Type: schema.String},
		"tags":    {Type: schema.Dict},
		"external_primaries": {
			Type: schema.List,
			Elem: &externalServer,
		},
		"external_secondaries": {
			Type: schema.List,
			Elem: &externalServer,
		},
		"internal_secondaries": {
			Type: schema.List,
			Elem: &schema.Field{
				Type: schema.Dict,
				Fields: schema.Schema{
					"host": {Type: schema.String},
				},
			},
		},
		"nsgs": {
			Type: schema.List,
			Elem: &schema.Field{Type: schema.String},
		},
	},
}
