package ipam

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/bloxops/b1apply/internal/bloxone"
	"github.com/bloxops/b1apply/internal/schema"
)

// ddiRoot is the versioned API root the allocation endpoints hang off.
const ddiRoot = "/api/ddi/v1"

// NextAvailableSubnets asks IPAM for the next free subnets of the given
// prefix length under an address block.
func NextAvailableSubnets(ctx context.Context, client *bloxone.Client, blockID string, cidr, count int) ([]bloxone.Object, error) {
	if cidr <= 0 || cidr > 128 {
		return nil, &schema.ValidationError{Field: "cidr", Reason: fmt.Sprintf("prefix length %d out of range", cidr)}
	}
	q := url.Values{}
	q.Set("cidr", strconv.Itoa(cidr))
	if count > 0 {
		q.Set("count", strconv.Itoa(count))
	}
	return client.Query(ctx, fmt.Sprintf("%s/%s/nextavailablesubnet?%s", ddiRoot, blockID, q.Encode()))
}

// NextAvailableAddressBlocks asks IPAM for the next free child blocks of
// the given prefix length under a parent address block.
func NextAvailableAddressBlocks(ctx context.Context, client *bloxone.Client, blockID string, cidr, count int) ([]bloxone.Object, error) {
	if cidr <= 0 || cidr > 128 {
		return nil, &schema.ValidationError{Field: "cidr", Reason: fmt.Sprintf("prefix length %d out of range", cidr)}
	}
	q := url.Values{}
	q.Set("cidr", strconv.Itoa(cidr))
	if count > 0 {
		q.Set("count", strconv.Itoa(count))
	}
	return client.Query(ctx, fmt.Sprintf("%s/%s/nextavailableaddressblock?%s", ddiRoot, blockID, q.Encode()))
}

// NextAvailableIPs asks IPAM for the next free addresses in a subnet or
// range, identified by its object id.
func NextAvailableIPs(ctx context.Context, client *bloxone.Client, parentID string, count int) ([]bloxone.Object, error) {
	path := fmt.Sprintf("%s/%s/nextavailableip", ddiRoot, parentID)
	if count > 0 {
		path += "?count=" + strconv.Itoa(count)
	}
	return client.Query(ctx, path)
}
