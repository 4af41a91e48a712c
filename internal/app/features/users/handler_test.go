package users_test

import (
	"net/http/httptest"
	"testing"

	"github.com/AfrozSheikh/krushivarsa/internal/app/features/users"
	"github.com/AfrozSheikh/krushivarsa/internal/domain/models"
	"github.com/AfrozSheikh/krushivarsa/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*users.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return users.NewHandler(db, zap.NewNop()), testutil.NewFixtures(t, db)
}

func TestList_ExcludesAdmins(t *testing.T) {
	h, fixtures := newTestHandler(t)
	fixtures.Admin()
	fixtures.ApprovedFarmer()
	fixtures.User(models.RoleInstitution, models.StatusPending, false)

	req := testutil.JSONRequest(t, "GET", "/api/users", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status: got %d, body %s", rec.Code, rec.Body.String())
	}
	body := testutil.DecodeResponse(t, rec)
	if body["count"].(float64) != 2 {
		t.Errorf("count: got %v", body["count"])
	}
	for _, raw := range body["users"].([]any) {
		u := raw.(map[string]any)
		if u["role"] == models.RoleAdmin {
			t.Errorf("admin account leaked into listing: %v", u)
		}
	}
}

func TestList_RejectsAdminRoleFilter(t *testing.T) {
	h, _ := newTestHandler(t)

	req := testutil.JSONRequest(t, "GET", "/api/users?role=admin", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != 400 {
		t.Fatalf("status: got %d, body %s", rec.Code, rec.Body.String())
	}
	body := testutil.DecodeResponse(t, rec)
	if body["message"] != "Invalid role filter" {
		t.Errorf("message: got %q", body["message"])
	}
}

func TestPending_ListsOnlyPending(t *testing.T) {
	h, fixtures := newTestHandler(t)
	fixtures.ApprovedFarmer()
	fixtures.User(models.RoleFarmer, models.StatusPending, false)
	fixtures.User(models.RoleInstitution, models.StatusRejected, false)

	req := testutil.JSONRequest(t, "GET", "/api/users/pending", nil)
	rec := httptest.NewRecorder()
	h.Pending(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status: got %d, body %s", rec.Code, rec.Body.String())
	}
	body := testutil.DecodeResponse(t, rec)
	if body["count"].(float64) != 1 {
		t.Errorf("count: got %v", body["count"])
	}
}

func TestApprove(t *testing.T) {
	h, fixtures := newTestHandler(t)
	pending := fixtures.User(models.RoleFarmer, models.StatusPending, false)

	req := testutil.JSONRequest(t, "PUT", "/api/users/"+pending.ID.Hex()+"/approve", map[string]any{"action": "approve"})
	req = testutil.WithChiURLParam(req, "userId", pending.ID.Hex())
	rec := httptest.NewRecorder()
	h.Approve(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status: got %d, body %s", rec.Code, rec.Body.String())
	}
	body := testutil.DecodeResponse(t, rec)
	if body["message"] != "User approved" {
		t.Errorf("message: got %q", body["message"])
	}
	u := body["user"].(map[string]any)
	if u["status"] != models.StatusApproved || u["isApproved"] != true {
		t.Errorf("user state: %v", u)
	}
}

func TestApprove_Reject(t *testing.T) {
	h, fixtures := newTestHandler(t)
	pending := fixtures.User(models.RoleInstitution, models.StatusPending, false)

	req := testutil.JSONRequest(t, "PUT", "/api/users/"+pending.ID.Hex()+"/approve", map[string]any{"action": "reject"})
	req = testutil.WithChiURLParam(req, "userId", pending.ID.Hex())
	rec := httptest.NewRecorder()
	h.Approve(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status: got %d, body %s", rec.Code, rec.Body.String())
	}
	body := testutil.DecodeResponse(t, rec)
	if body["message"] != "User rejected" {
		t.Errorf("message: got %q", body["message"])
	}
}

func TestApprove_InvalidAction(t *testing.T) {
	h, fixtures := newTestHandler(t)
	pending := fixtures.User(models.RoleFarmer, models.StatusPending, false)

	req := testutil.JSONRequest(t, "PUT", "/api/users/"+pending.ID.Hex()+"/approve", map[string]any{"action": "promote"})
	req = testutil.WithChiURLParam(req, "userId", pending.ID.Hex())
	rec := httptest.NewRecorder()
	h.Approve(rec, req)

	if rec.Code != 400 {
		t.Fatalf("status: got %d, body %s", rec.Code, rec.Body.String())
	}
	body := testutil.DecodeResponse(t, rec)
	if body["message"] != "Action must be approve or reject" {
		t.Errorf("message: got %q", body["message"])
	}
}

func TestApprove_AdminTargetBlocked(t *testing.T) {
	h, fixtures := newTestHandler(t)
	admin := fixtures.Admin()

	req := testutil.JSONRequest(t, "PUT", "/api/users/"+admin.ID.Hex()+"/approve", map[string]any{"action": "reject"})
	req = testutil.WithChiURLParam(req, "userId", admin.ID.Hex())
	rec := httptest.NewRecorder()
	h.Approve(rec, req)

	if rec.Code != 400 {
		t.Fatalf("status: got %d, body %s", rec.Code, rec.Body.String())
	}
	body := testutil.DecodeResponse(t, rec)
	if body["message"] != "Cannot modify admin user" {
		t.Errorf("message: got %q", body["message"])
	}
}

func TestDelete_AdminTargetBlocked(t *testing.T) {
	h, fixtures := newTestHandler(t)
	admin := fixtures.Admin()

	req := testutil.JSONRequest(t, "DELETE", "/api/users/"+admin.ID.Hex(), nil)
	req = testutil.WithChiURLParam(req, "userId", admin.ID.Hex())
	rec := httptest.NewRecorder()
	h.Delete(rec, req)

	if rec.Code != 400 {
		t.Fatalf("status: got %d, body %s", rec.Code, rec.Body.String())
	}
	body := testutil.DecodeResponse(t, rec)
	if body["message"] != "Cannot delete admin user" {
		t.Errorf("message: got %q", body["message"])
	}
}

func TestDelete(t *testing.T) {
	h, fixtures := newTestHandler(t)
	target := fixtures.ApprovedFarmer()

	req := testutil.JSONRequest(t, "DELETE", "/api/users/"+target.ID.Hex(), nil)
	req = testutil.WithChiURLParam(req, "userId", target.ID.Hex())
	rec := httptest.NewRecorder()
	h.Delete(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status: got %d, body %s", rec.Code, rec.Body.String())
	}

	// A second delete finds nothing.
	req = testutil.JSONRequest(t, "DELETE", "/api/users/"+target.ID.Hex(), nil)
	req = testutil.WithChiURLParam(req, "userId", target.ID.Hex())
	rec = httptest.NewRecorder()
	h.Delete(rec, req)
	if rec.Code != 404 {
		t.Fatalf("second delete status: got %d, body %s", rec.Code, rec.Body.String())
	}
}
