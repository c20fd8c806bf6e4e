package upstream

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/kiosklab/visita-gateway/internal/manila"
	"github.com/kiosklab/visita-gateway/internal/models"
)

// Key spellings observed across backend deployments. Older databases carry
// snake_case, newer ones camelCase, and a few collections mix both.
var (
	deptIDKeys     = []string{"dept_id", "deptId", "department_id", "department", "dept"}
	profIDKeys     = []string{"prof_id", "profId", "professor_id", "professor"}
	visitorsIDKeys = []string{"visitorsID", "visitors_id", "visitorsId", "visitorID", "visitor_id"}
	createdAtKeys  = []string{"createdAt", "created_at", "timestamp", "date"}
	taggedKeys     = []string{"qr_tagged", "qrTagged", "tagged"}
	fullNameKeys   = []string{"full_name", "fullname", "name", "fullName"}
	firstNameKeys  = []string{"firstName", "firstname", "first_name", "fname", "given_name"}
	middleNameKeys = []string{"middleName", "middlename", "middle_name", "mname"}
	lastNameKeys   = []string{"lastName", "lastname", "last_name", "lname", "family_name"}
)

// stringField returns the first present, non-empty key rendered as a string.
// Numeric ids arrive as JSON numbers from some deployments and must compare
// equal to their string spellings.
func stringField(doc map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		v, ok := doc[key]
		if !ok || v == nil {
			continue
		}
		if s := asString(v); s != "" {
			return s
		}
	}
	return ""
}

func asString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case map[string]interface{}:
		// Embedded reference documents ({"_id": ..., "name": ...}).
		return stringField(t, "_id", "id", "name")
	default:
		return ""
	}
}

// boolField treats 1, "1" and true as set; null, 0, false and absence as
// unset, which is how the backend stores the qr_tagged flag.
func boolField(doc map[string]interface{}, keys ...string) bool {
	for _, key := range keys {
		v, ok := doc[key]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case bool:
			return t
		case float64:
			return t != 0
		case string:
			s := strings.TrimSpace(t)
			return s == "1" || strings.EqualFold(s, "true")
		}
	}
	return false
}

// FormatFullName renders a visitor document into a display name. A populated
// full-name field wins; otherwise the name is assembled from its parts,
// skipping whichever parts are missing.
func FormatFullName(doc map[string]interface{}) string {
	if full := stringField(doc, fullNameKeys...); full != "" {
		return full
	}
	parts := make([]string, 0, 3)
	for _, keys := range [][]string{firstNameKeys, middleNameKeys, lastNameKeys} {
		if part := stringField(doc, keys...); part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, " ")
}

func normalizeOfficeVisit(doc map[string]interface{}) models.OfficeVisit {
	visit := models.OfficeVisit{
		ID:         stringField(doc, "_id", "id"),
		VisitorsID: stringField(doc, visitorsIDKeys...),
		DeptID:     stringField(doc, deptIDKeys...),
		ProfID:     stringField(doc, profIDKeys...),
		Purpose:    stringField(doc, "purpose", "reason"),
		Tagged:     boolField(doc, taggedKeys...),
	}
	if raw := stringField(doc, createdAtKeys...); raw != "" {
		if ts, err := manila.ParseTimestamp(raw); err == nil {
			visit.CreatedAt = &ts
		}
	}
	return visit
}

func normalizeVisitor(doc map[string]interface{}) models.Visitor {
	return models.Visitor{
		VisitorsID: stringField(doc, visitorsIDKeys...),
		FullName:   FormatFullName(doc),
		FirstName:  stringField(doc, firstNameKeys...),
		MiddleName: stringField(doc, middleNameKeys...),
		LastName:   stringField(doc, lastNameKeys...),
		Email:      stringField(doc, "email", "email_address"),
		Phone:      stringField(doc, "phone", "contact", "contact_number", "mobile"),
		Gender:     stringField(doc, "gender", "sex"),
		BirthDate:  stringField(doc, "birthdate", "birth_date", "dob"),
		Purpose:    stringField(doc, "purpose", "reason"),
	}
}

// normalizeOffice reads an office document. Office records name themselves
// under "department" in the legacy collection and "name" in the new one.
func normalizeOffice(doc map[string]interface{}) models.Office {
	return models.Office{
		ID:   stringField(doc, "_id", "id", "dept_id", "deptId"),
		Name: stringField(doc, "department", "name", "office", "dept_name"),
	}
}

func normalizeProfessor(doc map[string]interface{}) models.Professor {
	return models.Professor{
		ID:       stringField(doc, "_id", "id", "prof_id", "profId"),
		DeptID:   stringField(doc, deptIDKeys...),
		FullName: FormatFullName(doc),
	}
}

func normalizeService(doc map[string]interface{}) models.Service {
	return models.Service{
		ID:          stringField(doc, "_id", "id"),
		Name:        stringField(doc, "name", "service", "title"),
		Description: stringField(doc, "description", "details"),
	}
}

func normalizeLogEntry(doc map[string]interface{}) models.VisitorLogEntry {
	entry := models.VisitorLogEntry{
		VisitorsID: stringField(doc, visitorsIDKeys...),
		TimeIn:     stringField(doc, "timeIn", "time_in", "timein"),
		TimeOut:    stringField(doc, "timeOut", "time_out", "timeout"),
	}
	if raw := stringField(doc, createdAtKeys...); raw != "" {
		if ts, err := manila.ParseTimestamp(raw); err == nil {
			entry.CreatedAt = &ts
		}
	}
	return entry
}

// MatchesDept reports whether a visit belongs to a department, comparing the
// normalised string forms so numeric and string ids interoperate.
func MatchesDept(visit models.OfficeVisit, deptID string) bool {
	want := strings.TrimSpace(deptID)
	if want == "" {
		return true
	}
	return visit.DeptID == want
}
