package converter

import (
	"alartmed/internal/delivery/dto"
	"alartmed/internal/domain/entity"
	"alartmed/internal/session"
)

// ProfileToResponse converts a Profile entity to ProfileResponse DTO
func ProfileToResponse(profile *entity.Profile) *dto.ProfileResponse {
	if profile == nil {
		return nil
	}

	return &dto.ProfileResponse{
		ID:    profile.ID,
		Name:  profile.Name,
		Phone: profile.Phone,
		Role:  profile.Role,
	}
}

// StateToResponse converts a settled session state to SessionResponse DTO
func StateToResponse(state session.State) *dto.SessionResponse {
	response := &dto.SessionResponse{
		Status:  string(state.Status),
		Profile: ProfileToResponse(state.Profile),
	}
	if state.Identity != nil {
		response.User = &dto.UserResponse{
			ID:    state.Identity.ID,
			Email: state.Identity.Email,
		}
	}
	return response
}
