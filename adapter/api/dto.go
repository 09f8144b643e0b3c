package api

import (
	"math"
	"time"

	identityDomain "github.com/helpmatch/helpmatch/internal/identity/domain"
	inviteQueries "github.com/helpmatch/helpmatch/internal/invites/application/queries"
	"github.com/helpmatch/helpmatch/internal/invites/domain/invite"
	matchingApplication "github.com/helpmatch/helpmatch/internal/matching/application"
	"github.com/helpmatch/helpmatch/internal/tasks/domain/task"
)

type userResponse struct {
	ID        string   `json:"id"`
	Email     string   `json:"email"`
	Name      string   `json:"name"`
	Image     string   `json:"image,omitempty"`
	Skills    []string `json:"skills"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	CreatedAt string   `json:"created_at"`
	UpdatedAt string   `json:"updated_at"`
}

func toUserResponse(u *identityDomain.User) userResponse {
	resp := userResponse{
		ID:        u.ID().String(),
		Email:     u.Email().String(),
		Name:      u.Name().String(),
		Image:     u.Image(),
		Skills:    u.Skills().Values(),
		CreatedAt: u.CreatedAt().UTC().Format(time.RFC3339),
		UpdatedAt: u.UpdatedAt().UTC().Format(time.RFC3339),
	}
	if loc := u.Location(); loc != nil {
		lat, lon := loc.Lat(), loc.Lon()
		resp.Latitude = &lat
		resp.Longitude = &lon
	}
	return resp
}

type taskResponse struct {
	ID                string   `json:"id"`
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	Category          string   `json:"category"`
	Priority          string   `json:"priority"`
	Urgent            bool     `json:"urgent"`
	Deadline          *string  `json:"deadline,omitempty"`
	Latitude          *float64 `json:"latitude,omitempty"`
	Longitude         *float64 `json:"longitude,omitempty"`
	Address           string   `json:"address,omitempty"`
	Status            string   `json:"status"`
	PostedBy          string   `json:"posted_by"`
	AssignedVolunteer *string  `json:"assigned_volunteer,omitempty"`
	CreatedAt         string   `json:"created_at"`
	UpdatedAt         string   `json:"updated_at"`
}

func toTaskResponse(t *task.Task) taskResponse {
	resp := taskResponse{
		ID:          t.ID().String(),
		Title:       t.Title(),
		Description: t.Description(),
		Category:    t.Category().String(),
		Priority:    t.Priority().String(),
		Urgent:      t.Urgent(),
		Address:     t.Address(),
		Status:      t.Status().String(),
		PostedBy:    t.PostedBy().String(),
		CreatedAt:   t.CreatedAt().UTC().Format(time.RFC3339),
		UpdatedAt:   t.UpdatedAt().UTC().Format(time.RFC3339),
	}
	if d := t.Deadline(); d != nil {
		s := d.UTC().Format(time.RFC3339)
		resp.Deadline = &s
	}
	if loc := t.Location(); loc != nil {
		lat, lon := loc.Lat(), loc.Lon()
		resp.Latitude = &lat
		resp.Longitude = &lon
	}
	if v := t.AssignedVolunteer(); v != nil {
		s := v.String()
		resp.AssignedVolunteer = &s
	}
	return resp
}

func toTaskResponses(tasks []*task.Task) []taskResponse {
	out := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskResponse(t))
	}
	return out
}

type myTasksResponse struct {
	Posted       []taskResponse `json:"posted"`
	Volunteering []taskResponse `json:"volunteering"`
}

type taskOwnerResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

type relevantTaskResponse struct {
	taskResponse
	Score      float64            `json:"score"`
	Similarity float64            `json:"similarity"`
	DistanceKm *float64           `json:"distance_km,omitempty"`
	Owner      *taskOwnerResponse `json:"owner,omitempty"`
}

func toRelevantTaskResponse(entry matchingApplication.RelevantTask) relevantTaskResponse {
	resp := relevantTaskResponse{
		taskResponse: toTaskResponse(entry.Task),
		Score:        entry.Score,
		Similarity:   entry.Similarity,
	}
	if d := matchingApplication.RoundDistanceKm(entry.DistanceKm); !math.IsInf(d, 0) && !math.IsNaN(d) {
		resp.DistanceKm = &d
	}
	if entry.Owner != nil {
		resp.Owner = &taskOwnerResponse{
			ID:    entry.Owner.ID().String(),
			Name:  entry.Owner.Name().String(),
			Image: entry.Owner.Image(),
		}
	}
	return resp
}

type incomingInviteResponse struct {
	inviteResponse
	Sender    *taskOwnerResponse `json:"sender,omitempty"`
	TaskTitle string             `json:"task_title,omitempty"`
}

func toIncomingInviteResponse(entry inviteQueries.IncomingInvite) incomingInviteResponse {
	resp := incomingInviteResponse{inviteResponse: toInviteResponse(entry.Invite)}
	if entry.Sender != nil {
		resp.Sender = &taskOwnerResponse{
			ID:    entry.Sender.ID().String(),
			Name:  entry.Sender.Name().String(),
			Image: entry.Sender.Image(),
		}
	}
	if entry.Task != nil {
		resp.TaskTitle = entry.Task.Title()
	}
	return resp
}

type inviteResponse struct {
	ID          string  `json:"id"`
	TaskID      string  `json:"task_id"`
	SenderID    string  `json:"sender_id"`
	ReceiverID  string  `json:"receiver_id"`
	Status      string  `json:"status"`
	RespondedAt *string `json:"responded_at,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

func toInviteResponse(inv *invite.Invite) inviteResponse {
	resp := inviteResponse{
		ID:         inv.ID().String(),
		TaskID:     inv.TaskID().String(),
		SenderID:   inv.SenderID().String(),
		ReceiverID: inv.ReceiverID().String(),
		Status:     inv.Status().String(),
		CreatedAt:  inv.CreatedAt().UTC().Format(time.RFC3339),
	}
	if r := inv.RespondedAt(); r != nil {
		s := r.UTC().Format(time.RFC3339)
		resp.RespondedAt = &s
	}
	return resp
}
