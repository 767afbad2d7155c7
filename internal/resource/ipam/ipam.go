// Package ipam registers the IPAM resource kinds: IP spaces, address
// blocks, subnets, addresses, and hosts.
package ipam

import (
	"github.com/bloxops/b1apply/internal/resource"
	"github.com/bloxops/b1apply/internal/schema"
)

func init() {
	resource.Register(ipSpace)
	resource.Register(addressBlock)
	resource.Register(subnet)
	resource.Register(address)
	resource.Register(host)
}

// asmConfig is the Automated Scope Management sub-schema shared by the
// space and block kinds.
var asmConfig = schema.Schema{
	"asm_threshold":       {Type: schema.Int},
	"enable":              {Type: schema.Bool},
	"enable_notification": {Type: schema.Bool},
	"forecast_period":     {Type: schema.Int},
	"growth_factor":       {Type: schema.Int},
	"growth_type":         {Type: schema.String, Choices: []string{"percent", "count"}},
	"history":             {Type: schema.Int},
	"min_total":           {Type: schema.Int},
	"min_unused":          {Type: schema.Int},
}

var ipSpace = resource.Definition{
	Kind:           "ipam/ip_space",
	APIPath:        "/api/ddi/v1/ipam/ip_space",
	IdentityFields: []string{"name"},
	Schema: schema.Schema{
		"name":    {Type: schema.String, Required: true},
		"comment": {Type: schema.String},
		"tags":    {Type: schema.Dict},
		"asm_config": {
			Type:   schema.Dict,
			Fields: asmConfig,
		},
		"ddns_client_update": {
			Type:    schema.String,
			Choices: []string{"client", "server", "ignore", "over_client_update", "over_no_update"},
			Default: "client",
		},
		"ddns_send_updates":    {Type: schema.Bool},
		"ddns_update_on_renew": {Type: schema.Bool},
		"dhcp_config": {
			Type: schema.Dict,
			Fields: schema.Schema{
				"allow_unknown":     {Type: schema.Bool},
				"echo_client_id":    {Type: schema.Bool},
				"ignore_client_uid": {Type: schema.Bool},
				"lease_time":        {Type: schema.Int},
				"lease_time_v6":     {Type: schema.Int},
			},
		},
	},
}

var addressBlock = resource.Definition{
	Kind:                "ipam/address_block",
	APIPath:             "/api/ddi/v1/ipam/address_block",
	IdentityFields:      []string{"address", "cidr", "space"},
	ReadOnlyOnUpdate:    []string{"address", "space", "cidr"},
	NextAvailableSuffix: "nextavailableaddressblock",
	Schema: schema.Schema{
		"address":           {Type: schema.String},
		"cidr":              {Type: schema.Int},
		"space":             {Type: schema.String, Required: true},
		"next_available_id": {Type: schema.String},
		"name":              {Type: schema.String},
		"comment":           {Type: schema.String},
		"tags":              {Type: schema.Dict},
		"asm_config": {
			Type:   schema.Dict,
			Fields: asmConfig,
		},
	},
}

var subnet = resource.Definition{
	Kind:                "ipam/subnet",
	APIPath:             "/api/ddi/v1/ipam/subnet",
	IdentityFields:      []string{"address", "cidr", "space"},
	NextAvailableSuffix: "nextavailablesubnet",
	Schema: schema.Schema{
		"address":           {Type: schema.String},
		"cidr":              {Type: schema.Int},
		"space":             {Type: schema.String, Required: true},
		"next_available_id": {Type: schema.String},
		"name":              {Type: schema.String},
		"comment":           {Type: schema.String},
		"tags":              {Type: schema.Dict},
		"disable_dhcp":      {Type: schema.Bool},
		"dhcp_host":         {Type: schema.String},
		"dhcp_options": {
			Type: schema.List,
			Elem: &schema.Field{
				Type: schema.Dict,
				Fields: schema.Schema{
					"type":         {Type: schema.String},
					"option_code":  {Type: schema.String},
					"option_value": {Type: schema.String},
				},
			},
		},
	},
}

var address = resource.Definition{
	Kind:           "ipam/address",
	APIPath:        "/api/ddi/v1/ipam/address",
	IdentityFields: []string{"address", "space"},
	Schema: schema.Schema{
		"address":   {Type: schema.String, Required: true},
		"space":     {Type: schema.String, Required: true},
		"comment":   {Type: schema.String},
		"hwaddr":    {Type: schema.String},
		"interface": {Type: schema.String},
		"tags":      {Type: schema.Dict},
		"names": {
			Type: schema.List,
			Elem: &schema.Field{
				Type: schema.Dict,
				Fields: schema.Schema{
					"name": {Type: schema.String},
					"type": {Type: schema.String},
				},
			},
		},
	},
}

var host = resource.Definition{
	Kind:           "ipam/host",
	APIPath:        "/api/ddi/v1/ipam/host",
	IdentityFields: []string{"name"},
	Schema: schema.Schema{
		"name":                  {Type: schema.String, Required: true},
		"comment":               {Type: schema.String},
		"auto_generate_records": {Type: schema.Bool},
		"tags":                  {Type: schema.Dict},
		"addresses": {
			Type: schema.List,
			Elem: &schema.Field{
				Type: schema.Dict,
				Fields: schema.Schema{
					"address": {Type: schema.String},
					"space":   {Type: schema.String},
				},
			},
		},
		"host_names": {
			Type: schema.List,
			Elem: &schema.Field{
				Type: schema.Dict,
				Fields: schema.Schema{
					"name":         {Type: schema.String},
					"zone":         {Type: schema.String},
					"primary_name": {Type: schema.Bool},
				},
			},
		},
	},
}
