package mongo

import (
	"errors"
	"math"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/massage-portal/client-portal/internal/core/domain"
)

func TestSearchFilter(t *testing.T) {
	if f := searchFilter("", "email"); len(f) != 0 {
		t.Fatalf("expected empty filter, got %v", f)
	}

	f := searchFilter("a.b+c", "email", "first_name")
	or, ok := f["$or"].(bson.A)
	if !ok || len(or) != 2 {
		t.Fatalf("unexpected filter: %v", f)
	}
	re := or[0].(bson.M)["email"].(primitive.Regex)
	if re.Pattern != `a\.b\+c` || re.Options != "i" {
		t.Fatalf("unexpected regex: %+v", re)
	}
}

func TestPageOptions(t *testing.T) {
	opts := pageOptions(3, 20)
	if opts.Skip == nil || *opts.Skip != 40 {
		t.Fatalf("unexpected skip: %v", opts.Skip)
	}
	if opts.Limit == nil || *opts.Limit != 20 {
		t.Fatalf("unexpected limit: %v", opts.Limit)
	}
}

func TestPageOptions_HugePage(t *testing.T) {
	opts := pageOptions(math.MaxInt, 100)
	if opts.Skip == nil || *opts.Skip != math.MaxInt32 {
		t.Fatalf("expected saturated skip, got %v", opts.Skip)
	}
}

func TestClientConflict(t *testing.T) {
	dupUser := mongo.WriteException{WriteErrors: mongo.WriteErrors{{
		Code:    11000,
		Message: "E11000 duplicate key error collection: portal.clients index: uq_clients_user_id dup key",
	}}}
	if !errors.Is(clientConflict(dupUser), domain.ErrDuplicateProfile) {
		t.Fatalf("expected ErrDuplicateProfile")
	}

	dupEmail := mongo.WriteException{WriteErrors: mongo.WriteErrors{{
		Code:    11000,
		Message: "E11000 duplicate key error collection: portal.clients index: uq_clients_email dup key",
	}}}
	if !errors.Is(clientConflict(dupEmail), domain.ErrDuplicateClientEmail) {
		t.Fatalf("expected ErrDuplicateClientEmail")
	}

	if clientConflict(errors.New("timeout")) != nil {
		t.Fatalf("non-duplicate errors must pass through")
	}
}

func TestClientDocRoundTrip(t *testing.T) {
	uid := "u1"
	dob := time.Date(1990, 1, 2, 0, 0, 0, 0, time.UTC)
	p := &domain.ClientProfile{ID: "c1", UserID: &uid, Email: "a@x.com", DateOfBirth: &dob, Notes: "n"}

	got := toClientDoc(p).toDomain()
	if !got.OwnedBy("u1") || got.Email != "a@x.com" || !got.DateOfBirth.Equal(dob) || got.Notes != "n" {
		t.Fatalf("unexpected round trip: %+v", got)
	}

	unlinked := toClientDoc(&domain.ClientProfile{ID: "c2", Email: "b@x.com"})
	raw, err := bson.Marshal(unlinked)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if _, err := bson.Raw(raw).LookupErr("user_id"); err == nil {
		t.Fatalf("unlinked profile must omit user_id so the partial index ignores it")
	}
}
