package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"github.com/orkestra-labs/roster-backend/internal/types"
)

func TestDecodeMemberEnvelope(t *testing.T) {
	one := `{"name":"Asha","registration_no":"REG-1","email":"a@roster.local","status":"member"}`

	tests := []struct {
		name    string
		payload string
		want    int
	}{
		{"bare array", `[` + one + `]`, 1},
		{"success envelope", `{"success":true,"data":[` + one + `]}`, 1},
		{"data envelope", `{"data":[` + one + `]}`, 1},
		{"members envelope", `{"members":[` + one + `]}`, 1},
		{"empty array", `[]`, 0},
		{"unrecognized object", `{"rows":[` + one + `]}`, 0},
		{"scalar", `42`, 0},
		{"garbage", `not json at all`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeMemberEnvelope([]byte(tt.payload))
			if len(got) != tt.want {
				t.Errorf("decoded %d members; want %d", len(got), tt.want)
			}
		})
	}
}

func TestDecodeMemberEnvelopeLegacyStatusKey(t *testing.T) {
	payload := `[{"name":"Asha","registration_no":"REG-1","email":"a@roster.local","status_keanggotaan":"executive"}]`

	got := DecodeMemberEnvelope([]byte(payload))
	if len(got) != 1 {
		t.Fatalf("decoded %d members; want 1", len(got))
	}
	if got[0].StatusLegacy != types.StatusExecutive {
		t.Errorf("legacy status = %q; want executive", got[0].StatusLegacy)
	}
}

func TestImportSkipsExistingAndInvalid(t *testing.T) {
	members, _ := testMembers()
	svc := NewExportService(members, nil, nil)
	ctx := context.Background()

	payload := `{"data":[
		{"name":"Asha","registration_no":"REG-exec","email":"exec@roster.local","status":"executive"},
		{"name":"Nova","registration_no":"REG-new","email":"nova@roster.local","status_keanggotaan":"member"},
		{"name":"Ghost","registration_no":"","email":"ghost@roster.local"},
		{"name":"Odd","registration_no":"REG-odd","email":"odd@roster.local","status":"emeritus"}
	]}`

	result, err := svc.Import(ctx, "exec", []byte(payload))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if result.Imported != 1 {
		t.Errorf("imported = %d; want 1", result.Imported)
	}
	if result.Skipped != 3 {
		t.Errorf("skipped = %d; want 3", result.Skipped)
	}

	imported, _ := members.FindByRegistrationNo(ctx, "REG-new")
	if imported == nil {
		t.Fatal("imported member not found")
	}
	if imported.Status != types.StatusMember {
		t.Errorf("imported status = %q; want member", imported.Status)
	}
	if imported.Password == "" {
		t.Errorf("imported member has empty password hash")
	}
}

func TestImportRequiresAdmin(t *testing.T) {
	members, _ := testMembers()
	svc := NewExportService(members, nil, nil)

	if _, err := svc.Import(context.Background(), "plain", []byte(`[]`)); err != ErrForbidden {
		t.Errorf("err = %v; want ErrForbidden", err)
	}
}

func TestExportCSVShape(t *testing.T) {
	members, _ := testMembers()
	svc := NewExportService(members, nil, nil)

	out, err := svc.ExportCSV(context.Background())
	if err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 6 { // header + 5 members
		t.Fatalf("csv has %d rows; want 6", len(records))
	}
	if records[0][0] != "name" || records[0][6] != "status" {
		t.Errorf("unexpected header: %v", records[0])
	}
	for _, row := range records[1:] {
		if len(row) != len(csvHeader) {
			t.Errorf("row has %d columns; want %d", len(row), len(csvHeader))
		}
		if !types.IsValidMembershipStatus(row[6]) {
			t.Errorf("row status %q not a valid membership status", row[6])
		}
	}
}
