package rpc

import (
	"fmt"
	"time"

	"google.golang.org/protobuf/types/known/structpb"
)

// Credentials is the payload of SignUp and SignIn.
type Credentials struct {
	Email    string
	Password string
}

// SessionPayload is the payload returned by SignIn and Refresh.
type SessionPayload struct {
	UserID       string
	Email        string
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// SelectRequest asks for every visible row of Table.
type SelectRequest struct {
	Table     string
	OrderBy   string
	Ascending bool
}

// InsertRequest inserts Rows into Table and returns the inserted rows.
type InsertRequest struct {
	Table string
	Rows  []map[string]any
}

// UpdateRequest applies Patch to rows of Table where KeyColumn = KeyValue.
type UpdateRequest struct {
	Table     string
	KeyColumn string
	KeyValue  string
	Patch     map[string]any
}

// DeleteRequest removes rows of Table where KeyColumn = KeyValue.
type DeleteRequest struct {
	Table     string
	KeyColumn string
	KeyValue  string
}

// ToStruct encodes c.
func (c Credentials) ToStruct() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"email":    c.Email,
		"password": c.Password,
	})
}

// CredentialsFromStruct decodes a Credentials payload.
func CredentialsFromStruct(s *structpb.Struct) (Credentials, error) {
	email, err := stringField(s, "email")
	if err != nil {
		return Credentials{}, err
	}
	password, err := stringField(s, "password")
	if err != nil {
		return Credentials{}, err
	}
	return Credentials{Email: email, Password: password}, nil
}

// ToStruct encodes p.
func (p SessionPayload) ToStruct() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"access_token":  p.AccessToken,
		"refresh_token": p.RefreshToken,
		"expires_at":    p.ExpiresAt.UTC().Format(time.RFC3339),
		"user": map[string]any{
			"id":    p.UserID,
			"email": p.Email,
		},
	})
}

// SessionPayloadFromStruct decodes a SessionPayload.
func SessionPayloadFromStruct(s *structpb.Struct) (SessionPayload, error) {
	var p SessionPayload
	var err error

	if p.AccessToken, err = stringField(s, "access_token"); err != nil {
		return SessionPayload{}, err
	}
	if p.RefreshToken, err = stringField(s, "refresh_token"); err != nil {
		return SessionPayload{}, err
	}
	expiresAt, err := stringField(s, "expires_at")
	if err != nil {
		return SessionPayload{}, err
	}
	if p.ExpiresAt, err = time.Parse(time.RFC3339, expiresAt); err != nil {
		return SessionPayload{}, fmt.Errorf("invalid expires_at: %w", err)
	}

	user := s.GetFields()["user"].GetStructValue()
	if user == nil {
		return SessionPayload{}, fmt.Errorf("missing field user")
	}
	if p.UserID, err = stringField(user, "id"); err != nil {
		return SessionPayload{}, err
	}
	if p.Email, err = stringField(user, "email"); err != nil {
		return SessionPayload{}, err
	}

	return p, nil
}

// UserToStruct encodes a user identity.
func UserToStruct(id, email string) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{"id": id, "email": email})
}

// RefreshTokenToStruct encodes the payload of SignOut and Refresh.
func RefreshTokenToStruct(token string) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{"refresh_token": token})
}

// RefreshTokenFromStruct decodes the payload of SignOut and Refresh.
func RefreshTokenFromStruct(s *structpb.Struct) (string, error) {
	return stringField(s, "refresh_token")
}

// ToStruct encodes r.
func (r SelectRequest) ToStruct() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"table":     r.Table,
		"order_by":  r.OrderBy,
		"ascending": r.Ascending,
	})
}

// SelectRequestFromStruct decodes a SelectRequest. order_by is optional.
func SelectRequestFromStruct(s *structpb.Struct) (SelectRequest, error) {
	table, err := stringField(s, "table")
	if err != nil {
		return SelectRequest{}, err
	}
	return SelectRequest{
		Table:     table,
		OrderBy:   s.GetFields()["order_by"].GetStringValue(),
		Ascending: s.GetFields()["ascending"].GetBoolValue(),
	}, nil
}

// ToStruct encodes r.
func (r InsertRequest) ToStruct() (*structpb.Struct, error) {
	rows := make([]any, 0, len(r.Rows))
	for _, row := range r.Rows {
		rows = append(rows, row)
	}
	return structpb.NewStruct(map[string]any{
		"table": r.Table,
		"rows":  rows,
	})
}

// InsertRequestFromStruct decodes an InsertRequest.
func InsertRequestFromStruct(s *structpb.Struct) (InsertRequest, error) {
	table, err := stringField(s, "table")
	if err != nil {
		return InsertRequest{}, err
	}

	list := s.GetFields()["rows"].GetListValue()
	if list == nil {
		return InsertRequest{}, fmt.Errorf("missing field rows")
	}

	rows := make([]map[string]any, 0, len(list.GetValues()))
	for i, v := range list.GetValues() {
		row := v.GetStructValue()
		if row == nil {
			return InsertRequest{}, fmt.Errorf("rows[%d] is not an object", i)
		}
		rows = append(rows, row.AsMap())
	}

	return InsertRequest{Table: table, Rows: rows}, nil
}

// ToStruct encodes r.
func (r UpdateRequest) ToStruct() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"table": r.Table,
		"key":   r.KeyColumn,
		"value": r.KeyValue,
		"patch": r.Patch,
	})
}

// UpdateRequestFromStruct decodes an UpdateRequest.
func UpdateRequestFromStruct(s *structpb.Struct) (UpdateRequest, error) {
	d, err := DeleteRequestFromStruct(s)
	if err != nil {
		return UpdateRequest{}, err
	}
	patch := s.GetFields()["patch"].GetStructValue()
	if patch == nil {
		return UpdateRequest{}, fmt.Errorf("missing field patch")
	}
	return UpdateRequest{
		Table:     d.Table,
		KeyColumn: d.KeyColumn,
		KeyValue:  d.KeyValue,
		Patch:     patch.AsMap(),
	}, nil
}

// ToStruct encodes r.
func (r DeleteRequest) ToStruct() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"table": r.Table,
		"key":   r.KeyColumn,
		"value": r.KeyValue,
	})
}

// DeleteRequestFromStruct decodes a DeleteRequest.
func DeleteRequestFromStruct(s *structpb.Struct) (DeleteRequest, error) {
	var r DeleteRequest
	var err error
	if r.Table, err = stringField(s, "table"); err != nil {
		return DeleteRequest{}, err
	}
	if r.KeyColumn, err = stringField(s, "key"); err != nil {
		return DeleteRequest{}, err
	}
	if r.KeyValue, err = stringField(s, "value"); err != nil {
		return DeleteRequest{}, err
	}
	return r, nil
}

// TableToStruct encodes the payload of Export.
func TableToStruct(table string) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{"table": table})
}

// TableFromStruct decodes the payload of Export.
func TableFromStruct(s *structpb.Struct) (string, error) {
	return stringField(s, "table")
}

// RowsToList encodes rows as a list of objects.
func RowsToList(rows []map[string]any) (*structpb.ListValue, error) {
	values := make([]any, 0, len(rows))
	for _, row := range rows {
		values = append(values, row)
	}
	return structpb.NewList(values)
}

// RowsFromList decodes a list of objects.
func RowsFromList(l *structpb.ListValue) ([]map[string]any, error) {
	rows := make([]map[string]any, 0, len(l.GetValues()))
	for i, v := range l.GetValues() {
		row := v.GetStructValue()
		if row == nil {
			return nil, fmt.Errorf("row %d is not an object", i)
		}
		rows = append(rows, row.AsMap())
	}
	return rows, nil
}

func stringField(s *structpb.Struct, name string) (string, error) {
	v, ok := s.GetFields()[name]
	if !ok {
		return "", fmt.Errorf("missing field %s", name)
	}
	str, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", fmt.Errorf("field %s must be a string", name)
	}
	return str.StringValue, nil
}
