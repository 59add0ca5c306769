package mapper

import (
	"maps"
	"slices"
	"time"

	"apigw-modules/internal/domain/apigateway"
	"apigw-modules/pkg/module"
)

// ParamsToDomainVpcLinkSpec converts vpc-link module params to the domain spec.
// p must have had SetDefaults applied.
func ParamsToDomainVpcLinkSpec(p *module.VpcLinkParams) *apigateway.VpcLinkSpec {
	spec := &apigateway.VpcLinkSpec{
		Name:            p.Name,
		Description:     p.Description,
		TargetARNs:      slices.Clone(p.TargetARNs),
		Tags:            maps.Clone(p.Tags),
		ValidateTargets: p.ValidateTargets,
		RecreateFailed:  true,
	}

	if p.RecreateFailed != nil {
		spec.RecreateFailed = *p.RecreateFailed
	}

	return spec
}

// ParamsToDomainWaitOptions converts the wait and wait_timeout params.
func ParamsToDomainWaitOptions(p *module.VpcLinkParams) apigateway.WaitOptions {
	wait := apigateway.WaitOptions{Enabled: p.Wait}
	if p.WaitTimeout != nil {
		wait.Timeout = time.Duration(*p.WaitTimeout) * time.Second
	}
	return wait
}

// ParamsToDomainMethodQuery converts method-facts module params.
func ParamsToDomainMethodQuery(p *module.MethodFactsParams) apigateway.MethodQuery {
	return apigateway.MethodQuery{
		RestAPIID:  p.RestAPIID,
		ResourceID: p.ResourceID,
		HTTPMethod: p.HTTPMethod,
	}
}

// DomainToDocumentVpcLink renders a link with the remote field names.
func DomainToDocumentVpcLink(link *apigateway.VpcLink) map[string]interface{} {
	doc := map[string]interface{}{
		"id":         link.ID,
		"name":       link.Name,
		"targetArns": slices.Clone(link.TargetARNs),
		"status":     link.Status,
	}

	if link.Description != "" {
		doc["description"] = link.Description
	}
	if link.StatusMessage != "" {
		doc["statusMessage"] = link.StatusMessage
	}
	if len(link.Tags) > 0 {
		doc["tags"] = maps.Clone(link.Tags)
	}

	return doc
}

// DomainToDocumentVpcLinks renders a listing as {items: [...]}.
func DomainToDocumentVpcLinks(links []*apigateway.VpcLink) map[string]interface{} {
	items := make([]interface{}, 0, len(links))
	for _, link := range links {
		items = append(items, DomainToDocumentVpcLink(link))
	}
	return map[string]interface{}{"items": items}
}

// DomainToDocumentMethod returns the method document as API Gateway sent it.
func DomainToDocumentMethod(m *apigateway.Method) map[string]interface{} {
	return maps.Clone(m.Attributes)
}

// DeletedVpcLinkDocument is the msg of a state=absent run.
func DeletedVpcLinkDocument(id string) map[string]interface{} {
	return map[string]interface{}{
		"id":    id,
		"state": apigateway.StateAbsent,
	}
}
