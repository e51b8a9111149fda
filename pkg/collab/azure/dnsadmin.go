package azure

// Copyright (c) Microsoft Corporation.
// Licensed under the Apache License 2.0.

import (
	"context"
	"fmt"
	"sort"
	"strings"

	mgmtnetwork "github.com/Azure/azure-sdk-for-go/services/network/mgmt/2020-08-01/network"
	mgmtprivatedns "github.com/Azure/azure-sdk-for-go/services/privatedns/mgmt/2018-09-01/privatedns"
	mgmtfeatures "github.com/Azure/azure-sdk-for-go/services/resources/mgmt/2019-07-01/features"
	"github.com/Azure/go-autorest/autorest"
	"github.com/Azure/go-autorest/autorest/to"
	"github.com/sirupsen/logrus"

	"github.com/Azure/dnsmigrator/pkg/api"
	"github.com/Azure/dnsmigrator/pkg/collab"
	"github.com/Azure/dnsmigrator/pkg/util/azureclient/mgmt/features"
	"github.com/Azure/dnsmigrator/pkg/util/azureclient/mgmt/network"
	"github.com/Azure/dnsmigrator/pkg/util/azureclient/mgmt/privatedns"
	"github.com/Azure/dnsmigrator/pkg/util/azureerrors"
)

// dnsAdmin pushes DNS configuration two ways: record sets and zone links for
// managed private-DNS servers, and run-command deployments rewriting the
// resolver configuration on self-hosted servers.  Default resolver changes
// go to the segment vnet's DHCP options.
type dnsAdmin struct {
	log *logrus.Entry

	subscriptionID string
	resourceGroup  string

	deployments     features.DeploymentsClient
	virtualNetworks network.VirtualNetworksClient
	privateZones    privatedns.PrivateZonesClient
	recordSets      privatedns.RecordSetsClient
	vnetLinks       privatedns.VirtualNetworkLinksClient
}

// NewDnsAdmin returns a collab.DnsAdmin backed by the Azure private DNS and
// network APIs.
func NewDnsAdmin(log *logrus.Entry, subscriptionID, resourceGroup string, authorizer autorest.Authorizer) collab.DnsAdmin {
	return &dnsAdmin{
		log: log,

		subscriptionID: subscriptionID,
		resourceGroup:  resourceGroup,

		deployments:     features.NewDeploymentsClient(subscriptionID, authorizer),
		virtualNetworks: network.NewVirtualNetworksClient(subscriptionID, authorizer),
		privateZones:    privatedns.NewPrivateZonesClient(subscriptionID, authorizer),
		recordSets:      privatedns.NewRecordSetsClient(subscriptionID, authorizer),
		vnetLinks:       privatedns.NewVirtualNetworkLinksClient(subscriptionID, authorizer),
	}
}

func (d *dnsAdmin) wrap(err error) error {
	if err == nil {
		return nil
	}
	if azureerrors.IsThrottledOrServerError(err) {
		return api.TransientError(err)
	}
	return err
}

func (d *dnsAdmin) PushZoneFile(ctx context.Context, server api.DNSServer, zone string, records []api.Record) error {
	if server.Managed {
		return d.pushManagedZone(ctx, server, zone, records)
	}
	return d.pushHostedZone(ctx, server, zone, records)
}

func (d *dnsAdmin) pushManagedZone(ctx context.Context, server api.DNSServer, zone string, records []api.Record) error {
	err := d.privateZones.CreateOrUpdateAndWait(ctx, d.resourceGroup, zone, mgmtprivatedns.PrivateZone{
		Location: to.StringPtr("global"),
	})
	if err != nil {
		return d.wrap(err)
	}

	// The managed service only answers inside vnets linked to the zone.
	err = d.vnetLinks.CreateOrUpdateAndWait(ctx, d.resourceGroup, zone, server.SegmentID+"-link", mgmtprivatedns.VirtualNetworkLink{
		Location: to.StringPtr("global"),
		VirtualNetworkLinkProperties: &mgmtprivatedns.VirtualNetworkLinkProperties{
			VirtualNetwork: &mgmtprivatedns.SubResource{
				ID: to.StringPtr("/subscriptions/" + d.subscriptionID + "/resourceGroups/" + d.resourceGroup + "/providers/Microsoft.Network/virtualNetworks/" + server.SegmentID),
			},
			RegistrationEnabled: to.BoolPtr(false),
		},
	})
	if err != nil {
		return d.wrap(err)
	}

	for _, record := range records {
		if record.Type != "A" {
			continue
		}

		_, err = d.recordSets.CreateOrUpdate(ctx, d.resourceGroup, zone, mgmtprivatedns.A, record.Name, mgmtprivatedns.RecordSet{
			RecordSetProperties: &mgmtprivatedns.RecordSetProperties{
				TTL: to.Int64Ptr(record.TTL),
				ARecords: &[]mgmtprivatedns.ARecord{
					{
						Ipv4Address: to.StringPtr(record.Value),
					},
				},
			},
		}, "", "")
		if err != nil {
			return d.wrap(err)
		}
	}

	return nil
}

// pushHostedZone rewrites the zone file on a self-hosted resolver VM via a
// run-command deployment.
func (d *dnsAdmin) pushHostedZone(ctx context.Context, server api.DNSServer, zone string, records []api.Record) error {
	var lines []string
	for _, record := range records {
		lines = append(lines, fmt.Sprintf("%s %d IN %s %s", record.Name, record.TTL, record.Type, record.Value))
	}
	sort.Strings(lines)

	return d.runCommand(ctx, server, "zonefile-"+zone,
		fmt.Sprintf("write-zone %s <<'EOF'\n%s\nEOF", zone, strings.Join(lines, "\n")))
}

func (d *dnsAdmin) PushForwardingRules(ctx context.Context, server api.DNSServer, rules []api.ForwardingRule) error {
	if server.Managed {
		// The managed service resolves linked private zones natively and
		// sends everything else upstream; it takes no forwarding rules.
		return nil
	}

	var lines []string
	for _, rule := range rules {
		lines = append(lines, fmt.Sprintf("forward %s %s", rule.ZonePattern, rule.TargetAddress))
	}

	return d.runCommand(ctx, server, "forwarders",
		fmt.Sprintf("write-forwarders <<'EOF'\n%s\nEOF", strings.Join(lines, "\n")))
}

func (d *dnsAdmin) runCommand(ctx context.Context, server api.DNSServer, name, script string) error {
	deploymentName := "dnsmigrator-" + server.ID + "-" + name
	err := d.deployments.CreateOrUpdateAndWait(ctx, d.resourceGroup, deploymentName, mgmtfeatures.Deployment{
		Properties: &mgmtfeatures.DeploymentProperties{
			Template: map[string]interface{}{
				"$schema":        "https://schema.management.azure.com/schemas/2019-04-01/deploymentTemplate.json#",
				"contentVersion": "1.0.0.0",
				"resources": []interface{}{
					map[string]interface{}{
						"type":       "Microsoft.Compute/virtualMachines/runCommands",
						"apiVersion": "2022-03-01",
						"name":       server.ID + "/" + name,
						"location":   "[resourceGroup().location]",
						"properties": map[string]interface{}{
							"source": map[string]interface{}{
								"script": script,
							},
						},
					},
				},
			},
			Mode: mgmtfeatures.Incremental,
		},
	})
	if err != nil {
		if azureerrors.IsInvalidTemplateError(err) {
			return &api.ApplyRejectedError{Server: server.ID, Reason: err.Error()}
		}
		return d.wrap(err)
	}

	return nil
}

// SetDefaultResolver points a segment's workloads at server by rewriting the
// vnet's DHCP DNS options.  For a managed server the custom entry is removed
// instead, falling back to the platform resolver.
func (d *dnsAdmin) SetDefaultResolver(ctx context.Context, segment api.Segment, server api.DNSServer) error {
	vnet, err := d.virtualNetworks.Get(ctx, segment.ResourceContainer, segment.ID, "")
	if err != nil {
		return d.wrap(err)
	}

	if vnet.VirtualNetworkPropertiesFormat == nil {
		vnet.VirtualNetworkPropertiesFormat = &mgmtnetwork.VirtualNetworkPropertiesFormat{}
	}

	dnsServers := []string{}
	if !server.Managed {
		dnsServers = []string{server.Address}
	}
	vnet.DhcpOptions = &mgmtnetwork.DhcpOptions{
		DNSServers: &dnsServers,
	}

	return d.wrap(d.virtualNetworks.CreateOrUpdateAndWait(ctx, segment.ResourceContainer, segment.ID, vnet))
}
