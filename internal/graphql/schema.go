// Package graphql exposes users, organizations, customers and campaigns
// over GraphQL. Every resolver is scoped to the caller's organization.
package graphql

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/ai4local/ai4local/internal/domain"
	"github.com/ai4local/ai4local/internal/middleware"
	"github.com/ai4local/ai4local/internal/service"
	"github.com/graphql-go/graphql"
)

// Services are the application services resolvers delegate to.
type Services struct {
	Users     *service.UserService
	Customers *service.CustomerService
	Campaigns *service.CampaignService
}

type resolver struct {
	Services
}

// NewSchema builds the query and mutation schema.
func NewSchema(services Services) (graphql.Schema, error) {
	r := &resolver{Services: services}

	userType := newUserType()
	orgType := newOrganizationType()
	customerType := newCustomerType()
	campaignType := newCampaignType()

	userType.AddFieldConfig("organization", &graphql.Field{
		Type:    orgType,
		Resolve: r.userOrganization,
	})
	orgType.AddFieldConfig("users", &graphql.Field{
		Type:    graphql.NewList(userType),
		Resolve: r.organizationUsers,
	})

	byID := graphql.FieldConfigArgument{
		"id": &graphql.ArgumentConfig{Type: idType},
	}
	byOrg := graphql.FieldConfigArgument{
		"orgId": &graphql.ArgumentConfig{Type: idType},
	}
	window := graphql.FieldConfigArgument{
		"first":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: service.DefaultPerPage},
		"offset": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
	}

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"user":             &graphql.Field{Type: userType, Args: byID, Resolve: r.user},
			"organization":     &graphql.Field{Type: orgType, Args: byID, Resolve: r.organization},
			"customer":         &graphql.Field{Type: customerType, Args: byID, Resolve: r.customer},
			"customersByOrg":   &graphql.Field{Type: graphql.NewList(customerType), Args: byOrg, Resolve: r.customersByOrg},
			"campaign":         &graphql.Field{Type: campaignType, Args: byID, Resolve: r.campaign},
			"campaignsByOrg":   &graphql.Field{Type: graphql.NewList(campaignType), Args: byOrg, Resolve: r.campaignsByOrg},
			"allUsers":         &graphql.Field{Type: graphql.NewList(userType), Resolve: r.allUsers},
			"allOrganizations": &graphql.Field{Type: graphql.NewList(orgType), Resolve: r.allOrganizations},
			"allCustomers":     &graphql.Field{Type: graphql.NewList(customerType), Args: window, Resolve: r.allCustomers},
			"allCampaigns":     &graphql.Field{Type: graphql.NewList(campaignType), Args: window, Resolve: r.allCampaigns},
		},
	})

	customerArgs := func(create bool) graphql.FieldConfigArgument {
		args := graphql.FieldConfigArgument{
			"name":     &graphql.ArgumentConfig{Type: graphql.String},
			"phone":    &graphql.ArgumentConfig{Type: graphql.String},
			"email":    &graphql.ArgumentConfig{Type: graphql.String},
			"tags":     &graphql.ArgumentConfig{Type: stringListType},
			"metadata": &graphql.ArgumentConfig{Type: graphql.String},
		}
		if create {
			args["name"].Type = graphql.NewNonNull(graphql.String)
		} else {
			args["id"] = &graphql.ArgumentConfig{Type: idType}
		}
		return args
	}

	campaignArgs := func(create bool) graphql.FieldConfigArgument {
		args := graphql.FieldConfigArgument{
			"title":          &graphql.ArgumentConfig{Type: graphql.String},
			"campaignType":   &graphql.ArgumentConfig{Type: graphql.String},
			"description":    &graphql.ArgumentConfig{Type: graphql.String},
			"draftContent":   &graphql.ArgumentConfig{Type: graphql.String},
			"targetAudience": &graphql.ArgumentConfig{Type: stringListType},
			"scheduleAt":     &graphql.ArgumentConfig{Type: graphql.String},
			"metadata":       &graphql.ArgumentConfig{Type: graphql.String},
		}
		if create {
			args["title"].Type = graphql.NewNonNull(graphql.String)
			args["campaignType"].Type = graphql.NewNonNull(graphql.String)
		} else {
			args["id"] = &graphql.ArgumentConfig{Type: idType}
			args["status"] = &graphql.ArgumentConfig{Type: graphql.String}
			args["generatedContent"] = &graphql.ArgumentConfig{Type: graphql.String}
		}
		return args
	}

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createCustomer": &graphql.Field{Type: customerType, Args: customerArgs(true), Resolve: r.createCustomer},
			"updateCustomer": &graphql.Field{Type: customerType, Args: customerArgs(false), Resolve: r.updateCustomer},
			"deleteCustomer": &graphql.Field{Type: graphql.Boolean, Args: byID, Resolve: r.deleteCustomer},
			"createCampaign": &graphql.Field{Type: campaignType, Args: campaignArgs(true), Resolve: r.createCampaign},
			"updateCampaign": &graphql.Field{Type: campaignType, Args: campaignArgs(false), Resolve: r.updateCampaign},
			"deleteCampaign": &graphql.Field{Type: graphql.Boolean, Args: byID, Resolve: r.deleteCampaign},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    query,
		Mutation: mutation,
	})
}

// callerOrg returns the organization of the authenticated caller.
func callerOrg(ctx context.Context) (uint, error) {
	claims, ok := middleware.ClaimsFromContext(ctx)
	if !ok {
		return 0, domain.ErrTokenMissing
	}
	return claims.OrgID, nil
}

func argID(args map[string]interface{}, name string) (uint, error) {
	raw, _ := args[name].(string)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, domain.NewValidationError(name, "%s must be a positive integer", name)
	}
	return uint(id), nil
}

// sameOrg checks an explicit orgId argument against the caller's organization.
func sameOrg(ctx context.Context, args map[string]interface{}) (uint, error) {
	org, err := callerOrg(ctx)
	if err != nil {
		return 0, err
	}
	requested, err := argID(args, "orgId")
	if err != nil {
		return 0, err
	}
	if requested != org {
		return 0, domain.ErrForbidden
	}
	return org, nil
}

// pageWindow maps first/offset onto a page request. offset is rounded
// down to a multiple of first.
func pageWindow(args map[string]interface{}) service.PageRequest {
	first, _ := args["first"].(int)
	offset, _ := args["offset"].(int)
	if first < 1 {
		first = service.DefaultPerPage
	}
	if first > service.MaxPerPage {
		first = service.MaxPerPage
	}
	if offset < 0 {
		offset = 0
	}
	return service.PageRequest{Page: offset/first + 1, PerPage: first}
}

var everything = service.PageRequest{Page: 1, PerPage: service.MaxPerPage}

func optionalString(args map[string]interface{}, name string) service.Optional[string] {
	v, ok := args[name].(string)
	if !ok {
		return service.Optional[string]{}
	}
	return service.Some(v)
}

func stringPtr(args map[string]interface{}, name string) *string {
	if v, ok := args[name].(string); ok {
		return &v
	}
	return nil
}

func stringSlice(args map[string]interface{}, name string) ([]string, bool) {
	raw, ok := args[name].([]interface{})
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out, true
}

// metadataArg decodes a JSON string argument into an object.
func metadataArg(args map[string]interface{}) (map[string]interface{}, bool, error) {
	raw, ok := args["metadata"].(string)
	if !ok {
		return nil, false, nil
	}
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, true, domain.NewValidationError("metadata", "metadata must be a JSON object")
	}
	return m, true, nil
}

func (r *resolver) user(p graphql.ResolveParams) (interface{}, error) {
	org, err := callerOrg(p.Context)
	if err != nil {
		return nil, err
	}
	id, err := argID(p.Args, "id")
	if err != nil {
		return nil, err
	}
	u, err := r.Users.Member(p.Context, org, id)
	if err != nil {
		return nil, err
	}
	return userObject(u), nil
}

func (r *resolver) userOrganization(p graphql.ResolveParams) (interface{}, error) {
	src, _ := p.Source.(map[string]interface{})
	orgID, _ := src["orgId"].(uint)
	o, err := r.Users.Organization(p.Context, orgID)
	if err != nil {
		return nil, err
	}
	return organizationObject(o), nil
}

func (r *resolver) organizationUsers(p graphql.ResolveParams) (interface{}, error) {
	src, _ := p.Source.(map[string]interface{})
	orgID, _ := src["id"].(uint)
	users, err := r.Users.Members(p.Context, orgID)
	if err != nil {
		return nil, err
	}
	out := make([]interface{}, 0, len(users))
	for i := range users {
		out = append(out, userObject(&users[i]))
	}
	return out, nil
}

func (r *resolver) organization(p graphql.ResolveParams) (interface{}, error) {
	org, err := callerOrg(p.Context)
	if err != nil {
		return nil, err
	}
	id, err := argID(p.Args, "id")
	if err != nil {
		return nil, err
	}
	if id != org {
		return nil, domain.ErrOrganizationNotFound
	}
	o, err := r.Users.Organization(p.Context, org)
	if err != nil {
		return nil, err
	}
	return organizationObject(o), nil
}

func (r *resolver) allUsers(p graphql.ResolveParams) (interface{}, error) {
	org, err := callerOrg(p.Context)
	if err != nil {
		return nil, err
	}
	users, err := r.Users.Members(p.Context, org)
	if err != nil {
		return nil, err
	}
	out := make([]interface{}, 0, len(users))
	for i := range users {
		out = append(out, userObject(&users[i]))
	}
	return out, nil
}

func (r *resolver) allOrganizations(p graphql.ResolveParams) (interface{}, error) {
	org, err := callerOrg(p.Context)
	if err != nil {
		return nil, err
	}
	o, err := r.Users.Organization(p.Context, org)
	if err != nil {
		return nil, err
	}
	return []interface{}{organizationObject(o)}, nil
}

func (r *resolver) customer(p graphql.ResolveParams) (interface{}, error) {
	org, err := callerOrg(p.Context)
	if err != nil {
		return nil, err
	}
	id, err := argID(p.Args, "id")
	if err != nil {
		return nil, err
	}
	c, err := r.Customers.Get(p.Context, org, id)
	if err != nil {
		return nil, err
	}
	return customerObject(c), nil
}

func (r *resolver) listCustomers(ctx context.Context, org uint, page service.PageRequest) (interface{}, error) {
	res, err := r.Customers.List(ctx, org, service.CustomerQuery{PageRequest: page})
	if err != nil {
		return nil, err
	}
	out := make([]interface{}, 0, len(res.Customers))
	for i := range res.Customers {
		out = append(out, customerObject(&res.Customers[i]))
	}
	return out, nil
}

func (r *resolver) customersByOrg(p graphql.ResolveParams) (interface{}, error) {
	org, err := sameOrg(p.Context, p.Args)
	if err != nil {
		return nil, err
	}
	return r.listCustomers(p.Context, org, everything)
}

func (r *resolver) allCustomers(p graphql.ResolveParams) (interface{}, error) {
	org, err := callerOrg(p.Context)
	if err != nil {
		return nil, err
	}
	return r.listCustomers(p.Context, org, pageWindow(p.Args))
}

func (r *resolver) campaign(p graphql.ResolveParams) (interface{}, error) {
	org, err := callerOrg(p.Context)
	if err != nil {
		return nil, err
	}
	id, err := argID(p.Args, "id")
	if err != nil {
		return nil, err
	}
	c, err := r.Campaigns.Get(p.Context, org, id)
	if err != nil {
		return nil, err
	}
	return campaignObject(c), nil
}

func (r *resolver) listCampaigns(ctx context.Context, org uint, page service.PageRequest) (interface{}, error) {
	res, err := r.Campaigns.List(ctx, org, service.CampaignQuery{PageRequest: page})
	if err != nil {
		return nil, err
	}
	out := make([]interface{}, 0, len(res.Campaigns))
	for i := range res.Campaigns {
		out = append(out, campaignObject(&res.Campaigns[i]))
	}
	return out, nil
}

func (r *resolver) campaignsByOrg(p graphql.ResolveParams) (interface{}, error) {
	org, err := sameOrg(p.Context, p.Args)
	if err != nil {
		return nil, err
	}
	return r.listCampaigns(p.Context, org, everything)
}

func (r *resolver) allCampaigns(p graphql.ResolveParams) (interface{}, error) {
	org, err := callerOrg(p.Context)
	if err != nil {
		return nil, err
	}
	return r.listCampaigns(p.Context, org, pageWindow(p.Args))
}

func (r *resolver) createCustomer(p graphql.ResolveParams) (interface{}, error) {
	org, err := callerOrg(p.Context)
	if err != nil {
		return nil, err
	}
	metadata, _, err := metadataArg(p.Args)
	if err != nil {
		return nil, err
	}
	tags, _ := stringSlice(p.Args, "tags")
	name, _ := p.Args["name"].(string)

	c, err := r.Customers.Create(p.Context, org, service.CustomerInput{
		Name:     name,
		Phone:    stringPtr(p.Args, "phone"),
		Email:    stringPtr(p.Args, "email"),
		Tags:     tags,
		Metadata: metadata,
	})
	if err != nil {
		return nil, err
	}
	return customerObject(c), nil
}

func (r *resolver) updateCustomer(p graphql.ResolveParams) (interface{}, error) {
	org, err := callerOrg(p.Context)
	if err != nil {
		return nil, err
	}
	id, err := argID(p.Args, "id")
	if err != nil {
		return nil, err
	}

	patch := service.CustomerPatch{
		Name:  optionalString(p.Args, "name"),
		Phone: optionalString(p.Args, "phone"),
		Email: optionalString(p.Args, "email"),
	}
	if tags, ok := stringSlice(p.Args, "tags"); ok {
		patch.Tags = service.Some(tags)
	}
	metadata, ok, err := metadataArg(p.Args)
	if err != nil {
		return nil, err
	}
	if ok {
		patch.Metadata = service.Some(metadata)
	}

	c, err := r.Customers.Update(p.Context, org, id, patch)
	if err != nil {
		return nil, err
	}
	return customerObject(c), nil
}

func (r *resolver) deleteCustomer(p graphql.ResolveParams) (interface{}, error) {
	org, err := callerOrg(p.Context)
	if err != nil {
		return nil, err
	}
	id, err := argID(p.Args, "id")
	if err != nil {
		return nil, err
	}
	if err := r.Customers.Delete(p.Context, org, id); err != nil {
		return false, err
	}
	return true, nil
}

func (r *resolver) createCampaign(p graphql.ResolveParams) (interface{}, error) {
	org, err := callerOrg(p.Context)
	if err != nil {
		return nil, err
	}
	metadata, _, err := metadataArg(p.Args)
	if err != nil {
		return nil, err
	}
	audience, _ := stringSlice(p.Args, "targetAudience")
	title, _ := p.Args["title"].(string)
	campaignType, _ := p.Args["campaignType"].(string)
	description, _ := p.Args["description"].(string)
	draft, _ := p.Args["draftContent"].(string)

	c, err := r.Campaigns.Create(p.Context, org, service.CampaignInput{
		Title:          title,
		Description:    description,
		DraftContent:   draft,
		TargetAudience: audience,
		ScheduleAt:     stringPtr(p.Args, "scheduleAt"),
		CampaignType:   campaignType,
		Metadata:       metadata,
	})
	if err != nil {
		return nil, err
	}
	return campaignObject(c), nil
}

func (r *resolver) updateCampaign(p graphql.ResolveParams) (interface{}, error) {
	org, err := callerOrg(p.Context)
	if err != nil {
		return nil, err
	}
	id, err := argID(p.Args, "id")
	if err != nil {
		return nil, err
	}

	patch := service.CampaignPatch{
		Title:            optionalString(p.Args, "title"),
		Description:      optionalString(p.Args, "description"),
		DraftContent:     optionalString(p.Args, "draftContent"),
		GeneratedContent: optionalString(p.Args, "generatedContent"),
		Status:           optionalString(p.Args, "status"),
		ScheduleAt:       optionalString(p.Args, "scheduleAt"),
		CampaignType:     optionalString(p.Args, "campaignType"),
	}
	if audience, ok := stringSlice(p.Args, "targetAudience"); ok {
		patch.TargetAudience = service.Some(audience)
	}
	metadata, ok, err := metadataArg(p.Args)
	if err != nil {
		return nil, err
	}
	if ok {
		patch.Metadata = service.Some(metadata)
	}

	c, err := r.Campaigns.Update(p.Context, org, id, patch)
	if err != nil {
		return nil, err
	}
	return campaignObject(c), nil
}

func (r *resolver) deleteCampaign(p graphql.ResolveParams) (interface{}, error) {
	org, err := callerOrg(p.Context)
	if err != nil {
		return nil, err
	}
	id, err := argID(p.Args, "id")
	if err != nil {
		return nil, err
	}
	if err := r.Campaigns.Delete(p.Context, org, id); err != nil {
		return false, err
	}
	return true, nil
}
