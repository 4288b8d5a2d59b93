package gateway

import (
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dtroode/tododash/internal/api/grpc/rpc"
	"github.com/dtroode/tododash/internal/model"
)

func sessionFromStruct(s *structpb.Struct) (*model.Session, error) {
	p, err := rpc.SessionPayloadFromStruct(s)
	if err != nil {
		return nil, fmt.Errorf("invalid session payload: %w", err)
	}
	return &model.Session{
		User:         model.User{ID: p.UserID, Email: p.Email},
		AccessToken:  p.AccessToken,
		RefreshToken: p.RefreshToken,
		ExpiresAt:    p.ExpiresAt,
	}, nil
}

func userFromStruct(m map[string]any) (model.User, error) {
	id, ok := m["id"].(string)
	if !ok || id == "" {
		return model.User{}, fmt.Errorf("invalid user payload: missing id")
	}
	email, _ := m["email"].(string)
	return model.User{ID: id, Email: email}, nil
}
