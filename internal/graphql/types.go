package graphql

import (
	"encoding/json"
	"time"

	"github.com/ai4local/ai4local/internal/model"
	"github.com/graphql-go/graphql"
)

// Objects are exposed as maps keyed by GraphQL field name so the default
// resolver can read them without struct tags.

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func nullableString(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

// jsonString renders a JSON side-field; nil maps become null.
func jsonString(v map[string]interface{}) interface{} {
	if v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return string(b)
}

func stringList(l model.StringList) []string {
	if l == nil {
		return []string{}
	}
	return []string(l)
}

func userObject(u *model.User) map[string]interface{} {
	return map[string]interface{}{
		"id":        u.ID,
		"email":     u.Email,
		"name":      u.Name,
		"role":      string(u.Role),
		"orgId":     u.OrgID,
		"isActive":  u.IsActive,
		"createdAt": formatTime(u.CreatedAt),
		"lastLogin": formatTimePtr(u.LastLogin),
	}
}

func organizationObject(o *model.Organization) map[string]interface{} {
	return map[string]interface{}{
		"id":          o.ID,
		"name":        o.Name,
		"plan":        string(o.Plan),
		"billingInfo": jsonString(o.BillingInfo),
		"createdAt":   formatTime(o.CreatedAt),
	}
}

func customerObject(c *model.Customer) map[string]interface{} {
	return map[string]interface{}{
		"id":        c.ID,
		"orgId":     c.OrgID,
		"name":      c.Name,
		"phone":     nullableString(c.Phone),
		"email":     nullableString(c.Email),
		"tags":      stringList(c.Tags),
		"metadata":  jsonString(c.Metadata),
		"createdAt": formatTime(c.CreatedAt),
		"updatedAt": formatTime(c.UpdatedAt),
	}
}

func campaignObject(c *model.Campaign) map[string]interface{} {
	return map[string]interface{}{
		"id":               c.ID,
		"orgId":            c.OrgID,
		"title":            c.Title,
		"description":      c.Description,
		"draftContent":     c.DraftContent,
		"generatedContent": c.GeneratedContent,
		"targetAudience":   stringList(c.TargetAudience),
		"scheduleAt":       formatTimePtr(c.ScheduleAt),
		"status":           string(c.Status),
		"campaignType":     string(c.CampaignType),
		"metadata":         jsonString(c.Metadata),
		"createdAt":        formatTime(c.CreatedAt),
		"updatedAt":        formatTime(c.UpdatedAt),
	}
}

var (
	stringListType = graphql.NewList(graphql.NewNonNull(graphql.String))
	idType         = graphql.NewNonNull(graphql.ID)
)

func newUserType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: idType},
			"email":     &graphql.Field{Type: graphql.String},
			"name":      &graphql.Field{Type: graphql.String},
			"role":      &graphql.Field{Type: graphql.String},
			"orgId":     &graphql.Field{Type: graphql.ID},
			"isActive":  &graphql.Field{Type: graphql.Boolean},
			"createdAt": &graphql.Field{Type: graphql.String},
			"lastLogin": &graphql.Field{Type: graphql.String},
		},
	})
}

func newOrganizationType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Organization",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: idType},
			"name":        &graphql.Field{Type: graphql.String},
			"plan":        &graphql.Field{Type: graphql.String},
			"billingInfo": &graphql.Field{Type: graphql.String, Description: "JSON encoded billing details"},
			"createdAt":   &graphql.Field{Type: graphql.String},
		},
	})
}

func newCustomerType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Customer",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: idType},
			"orgId":     &graphql.Field{Type: graphql.ID},
			"name":      &graphql.Field{Type: graphql.String},
			"phone":     &graphql.Field{Type: graphql.String},
			"email":     &graphql.Field{Type: graphql.String},
			"tags":      &graphql.Field{Type: stringListType},
			"metadata":  &graphql.Field{Type: graphql.String, Description: "JSON encoded metadata"},
			"createdAt": &graphql.Field{Type: graphql.String},
			"updatedAt": &graphql.Field{Type: graphql.String},
		},
	})
}

func newCampaignType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Campaign",
		Fields: graphql.Fields{
			"id":               &graphql.Field{Type: idType},
			"orgId":            &graphql.Field{Type: graphql.ID},
			"title":            &graphql.Field{Type: graphql.String},
			"description":      &graphql.Field{Type: graphql.String},
			"draftContent":     &graphql.Field{Type: graphql.String},
			"generatedContent": &graphql.Field{Type: graphql.String},
			"targetAudience":   &graphql.Field{Type: stringListType},
			"scheduleAt":       &graphql.Field{Type: graphql.String},
			"status":           &graphql.Field{Type: graphql.String},
			"campaignType":     &graphql.Field{Type: graphql.String},
			"metadata":         &graphql.Field{Type: graphql.String, Description: "JSON encoded metadata"},
			"createdAt":        &graphql.Field{Type: graphql.String},
			"updatedAt":        &graphql.Field{Type: graphql.String},
		},
	})
}
