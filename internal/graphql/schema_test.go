package graphql_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ai4local/ai4local/internal/auth"
	"github.com/ai4local/ai4local/internal/config"
	gql "github.com/ai4local/ai4local/internal/graphql"
	"github.com/ai4local/ai4local/internal/middleware"
	"github.com/ai4local/ai4local/internal/model"
	"github.com/ai4local/ai4local/internal/repository"
	"github.com/ai4local/ai4local/internal/service"
	"github.com/ai4local/ai4local/internal/testutil"
	"github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db     *gorm.DB
	schema graphql.Schema
	org    *model.Organization
	owner  *model.User
	tokens *auth.TokenManager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewDB(t)
	tx := repository.NewTransactor(db)
	activity := service.NewActivityService(repository.NewActivityLogRepository(db))
	tokens := auth.NewTokenManager("graphql-secret", time.Hour)

	users := service.NewUserService(
		repository.NewUserRepository(db),
		repository.NewOrganizationRepository(db),
		tx,
		auth.NewPasswordHasher(),
		tokens,
		nil,
		&config.Config{},
	)

	schema, err := gql.NewSchema(gql.Services{
		Users:     users,
		Customers: service.NewCustomerService(repository.NewCustomerRepository(db), tx, activity),
		Campaigns: service.NewCampaignService(repository.NewCampaignRepository(db), tx, activity, nil),
	})
	require.NoError(t, err)

	org, owner := testutil.CreateOrg(t, db, "Boutique", "owner@boutique.mg")
	return &fixture{db: db, schema: schema, org: org, owner: owner, tokens: tokens}
}

func (f *fixture) ctx(orgID uint) context.Context {
	return middleware.WithClaims(context.Background(), &auth.Claims{UserID: f.owner.ID, OrgID: orgID, Role: string(f.owner.Role)})
}

func (f *fixture) do(t *testing.T, ctx context.Context, query string, vars map[string]interface{}) *graphql.Result {
	t.Helper()
	return graphql.Do(graphql.Params{
		Schema:         f.schema,
		RequestString:  query,
		VariableValues: vars,
		Context:        ctx,
	})
}

func decode(t *testing.T, res *graphql.Result, v interface{}) {
	t.Helper()
	require.Empty(t, res.Errors)
	b, err := json.Marshal(res.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(b, v))
}

func TestCustomerMutations(t *testing.T) {
	f := newFixture(t)
	ctx := f.ctx(f.org.ID)

	res := f.do(t, ctx, `mutation {
		createCustomer(name: " Rakoto ", email: "Rakoto@Mail.MG", tags: ["vip", "vip", "new"], metadata: "{\"city\":\"Tana\"}") {
			id name email tags metadata
		}
	}`, nil)

	var created struct {
		CreateCustomer struct {
			ID       string   `json:"id"`
			Name     string   `json:"name"`
			Email    string   `json:"email"`
			Tags     []string `json:"tags"`
			Metadata string   `json:"metadata"`
		} `json:"createCustomer"`
	}
	decode(t, res, &created)
	assert.Equal(t, "Rakoto", created.CreateCustomer.Name)
	assert.Equal(t, "rakoto@mail.mg", created.CreateCustomer.Email)
	assert.Equal(t, []string{"vip", "new"}, created.CreateCustomer.Tags)
	assert.JSONEq(t, `{"city":"Tana"}`, created.CreateCustomer.Metadata)

	id := created.CreateCustomer.ID

	res = f.do(t, ctx, `mutation($id: ID!) { updateCustomer(id: $id, phone: "0341234567") { name phone } }`,
		map[string]interface{}{"id": id})
	var updated struct {
		UpdateCustomer struct {
			Name  string `json:"name"`
			Phone string `json:"phone"`
		} `json:"updateCustomer"`
	}
	decode(t, res, &updated)
	assert.Equal(t, "Rakoto", updated.UpdateCustomer.Name)
	assert.Equal(t, "0341234567", updated.UpdateCustomer.Phone)

	res = f.do(t, ctx, `mutation { createCustomer(name: "Twin", email: "rakoto@mail.mg") { id } }`, nil)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "a customer with this email already exists", res.Errors[0].Message)

	res = f.do(t, ctx, `mutation { createCustomer(name: "Bad", metadata: "[1,2]") { id } }`, nil)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "metadata must be a JSON object", res.Errors[0].Message)

	res = f.do(t, ctx, `mutation($id: ID!) { deleteCustomer(id: $id) }`, map[string]interface{}{"id": id})
	var deleted struct {
		DeleteCustomer bool `json:"deleteCustomer"`
	}
	decode(t, res, &deleted)
	assert.True(t, deleted.DeleteCustomer)

	var logs int64
	require.NoError(t, f.db.Model(&model.ActivityLog{}).Where("entity_type = ?", "customer").Count(&logs).Error)
	assert.Equal(t, int64(3), logs)
}

func TestCampaignMutations(t *testing.T) {
	f := newFixture(t)
	ctx := f.ctx(f.org.ID)

	res := f.do(t, ctx, `mutation {
		createCampaign(title: "Soldes", campaignType: "sms", targetAudience: ["vip"], scheduleAt: "2026-11-01T09:00:00Z") {
			id status campaignType targetAudience scheduleAt
		}
	}`, nil)
	var created struct {
		CreateCampaign struct {
			ID             string   `json:"id"`
			Status         string   `json:"status"`
			CampaignType   string   `json:"campaignType"`
			TargetAudience []string `json:"targetAudience"`
			ScheduleAt     string   `json:"scheduleAt"`
		} `json:"createCampaign"`
	}
	decode(t, res, &created)
	assert.Equal(t, "draft", created.CreateCampaign.Status)
	assert.Equal(t, "sms", created.CreateCampaign.CampaignType)
	assert.Equal(t, []string{"vip"}, created.CreateCampaign.TargetAudience)
	assert.Equal(t, "2026-11-01T09:00:00Z", created.CreateCampaign.ScheduleAt)

	res = f.do(t, ctx, `mutation { createCampaign(title: "X", campaignType: "fax") { id } }`, nil)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0].Message, "invalid campaign type")

	res = f.do(t, ctx, `mutation($id: ID!) { updateCampaign(id: $id, status: "archived") { id } }`,
		map[string]interface{}{"id": created.CreateCampaign.ID})
	require.Len(t, res.Errors, 1)

	res = f.do(t, ctx, `mutation($id: ID!) { updateCampaign(id: $id, status: "sent") { status } }`,
		map[string]interface{}{"id": created.CreateCampaign.ID})
	require.Empty(t, res.Errors)

	res = f.do(t, ctx, `mutation($id: ID!) { deleteCampaign(id: $id) }`,
		map[string]interface{}{"id": created.CreateCampaign.ID})
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "cannot delete a campaign that has already been sent", res.Errors[0].Message)
}

func TestQueriesAreScopedToCallerOrg(t *testing.T) {
	f := newFixture(t)
	other, _ := testutil.CreateOrg(t, f.db, "Other", "owner@other.mg")

	require.NoError(t, f.db.Create(&model.Customer{OrgID: f.org.ID, Name: "Mine"}).Error)
	foreign := &model.Customer{OrgID: other.ID, Name: "Theirs"}
	require.NoError(t, f.db.Create(foreign).Error)

	ctx := f.ctx(f.org.ID)

	res := f.do(t, ctx, `{ allCustomers { name } allOrganizations { name users { email } } }`, nil)
	var all struct {
		AllCustomers []struct {
			Name string `json:"name"`
		} `json:"allCustomers"`
		AllOrganizations []struct {
			Name  string `json:"name"`
			Users []struct {
				Email string `json:"email"`
			} `json:"users"`
		} `json:"allOrganizations"`
	}
	decode(t, res, &all)
	require.Len(t, all.AllCustomers, 1)
	assert.Equal(t, "Mine", all.AllCustomers[0].Name)
	require.Len(t, all.AllOrganizations, 1)
	assert.Equal(t, "Boutique", all.AllOrganizations[0].Name)
	require.Len(t, all.AllOrganizations[0].Users, 1)
	assert.Equal(t, "owner@boutique.mg", all.AllOrganizations[0].Users[0].Email)

	res = f.do(t, ctx, `query($id: ID!) { customer(id: $id) { name } }`,
		map[string]interface{}{"id": foreign.ID})
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "customer not found", res.Errors[0].Message)

	res = f.do(t, ctx, `query($org: ID!) { customersByOrg(orgId: $org) { name } }`,
		map[string]interface{}{"org": other.ID})
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "access to this organization is not allowed", res.Errors[0].Message)

	res = f.do(t, ctx, `query($id: ID!) { user(id: $id) { email organization { name } } }`,
		map[string]interface{}{"id": f.owner.ID})
	var user struct {
		User struct {
			Email        string `json:"email"`
			Organization struct {
				Name string `json:"name"`
			} `json:"organization"`
		} `json:"user"`
	}
	decode(t, res, &user)
	assert.Equal(t, "Boutique", user.User.Organization.Name)

	res = f.do(t, context.Background(), `{ allCustomers { name } }`, nil)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "token missing", res.Errors[0].Message)
}

func TestAllCampaignsWindow(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 5; i++ {
		require.NoError(t, f.db.Create(&model.Campaign{
			OrgID:        f.org.ID,
			Title:        "C",
			Status:       model.CampaignDraft,
			CampaignType: model.CampaignEmail,
		}).Error)
	}

	res := f.do(t, f.ctx(f.org.ID), `{ allCampaigns(first: 2, offset: 4) { id } }`, nil)
	var out struct {
		AllCampaigns []struct {
			ID string `json:"id"`
		} `json:"allCampaigns"`
	}
	decode(t, res, &out)
	assert.Len(t, out.AllCampaigns, 1)
}

func TestHandlerRequiresToken(t *testing.T) {
	f := newFixture(t)
	h := gql.NewHandler(&f.schema, f.tokens, true)

	req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`{"query":"{ allUsers { email } }"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"token missing"}`, rec.Body.String())

	token, err := f.tokens.Generate(f.owner.ID, f.org.ID, string(f.owner.Role))
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`{"query":"{ allUsers { email } }"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "owner@boutique.mg")

	req = httptest.NewRequest(http.MethodGet, "/graphql", nil)
	req.Header.Set("Accept", "text/html")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "graphiql")
}
