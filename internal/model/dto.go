package model

import "time"

// PhotoDTO is the wire shape of an attached photo.
type PhotoDTO struct {
	ID        uint      `json:"id"`
	URL       string    `json:"url"`
	Filename  string    `json:"filename"`
	Size      int64     `json:"size"`
	MimeType  string    `json:"mimeType"`
	CreatedAt time.Time `json:"createdAt"`
}

// PublicReport is the report shape returned on public endpoints. It never
// carries the delete token, contact email or forensic fields.
type PublicReport struct {
	UUID        string         `json:"uuid"`
	Types       ReportTypeList `json:"types"`
	Description string         `json:"description,omitempty"`
	Latitude    float64        `json:"latitude"`
	Longitude   float64        `json:"longitude"`
	Address     *string        `json:"address,omitempty"`
	City        *string        `json:"city,omitempty"`
	Voivodeship *string        `json:"voivodeship,omitempty"`
	PostalCode  *string        `json:"postalCode,omitempty"`
	ReportedAt  time.Time      `json:"reportedAt"`
	CreatedAt   time.Time      `json:"createdAt"`
	Photos      []PhotoDTO     `json:"photos"`
}

// AdminReport additionally exposes moderation state and the contact email.
type AdminReport struct {
	PublicReport
	Status       ReportStatus `json:"status"`
	ContactEmail *string      `json:"contactEmail,omitempty"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

func NewPublicReport(r Report) PublicReport {
	photos := make([]PhotoDTO, 0, len(r.Photos))
	for _, p := range r.Photos {
		photos = append(photos, PhotoDTO{
			ID:        p.ID,
			URL:       p.URL,
			Filename:  p.Filename,
			Size:      p.Size,
			MimeType:  p.MimeType,
			CreatedAt: p.CreatedAt,
		})
	}
	return PublicReport{
		UUID:        r.UUID,
		Types:       r.Types,
		Description: r.Description,
		Latitude:    r.Latitude,
		Longitude:   r.Longitude,
		Address:     r.Address,
		City:        r.City,
		Voivodeship: r.Voivodeship,
		PostalCode:  r.PostalCode,
		ReportedAt:  r.ReportedAt,
		CreatedAt:   r.CreatedAt,
		Photos:      photos,
	}
}

func NewAdminReport(r Report) AdminReport {
	return AdminReport{
		PublicReport: NewPublicReport(r),
		Status:       r.Status,
		ContactEmail: r.ContactEmail,
		UpdatedAt:    r.UpdatedAt,
	}
}

// AdminProfile is the admin account shape returned by auth endpoints.
type AdminProfile struct {
	ID          uint       `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name,omitempty"`
	Role        AdminRole  `json:"role"`
	IsActive    bool       `json:"isActive"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func NewAdminProfile(u AdminUser) AdminProfile {
	return AdminProfile{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Role:        u.Role,
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// CityCount and VoivodeshipCount are stats breakdown rows.
type CityCount struct {
	City  string `json:"city"`
	Count int64  `json:"count"`
}

type VoivodeshipCount struct {
	Voivodeship string `json:"voivodeship"`
	Count       int64  `json:"count"`
}

type Stats struct {
	Period        string               `json:"period"`
	Total         int64                `json:"total"`
	RecentCount   int64                `json:"recentCount"`
	ByType        map[ReportType]int64 `json:"byType"`
	ByCity        []CityCount          `json:"byCity"`
	ByVoivodeship []VoivodeshipCount   `json:"byVoivodeship"`
}
