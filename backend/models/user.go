// Copyright (C) 2026 Mind & Motion <dev@mindmotion.app>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package models

import "time"

// User is a directory entry. Email is the identity key everywhere in
// the system; users are never hard-deleted.
type User struct {
	Email           string    `json:"email" db:"email"`
	FullName        string    `json:"full_name" db:"full_name"`
	ProfileImageRef string    `json:"profile_image_ref,omitempty" db:"profile_image_ref"`
	Role            string    `json:"role,omitempty" db:"role"`
	Address         string    `json:"address,omitempty" db:"address"`
	City            string    `json:"city,omitempty" db:"city"`
	Country         string    `json:"country,omitempty" db:"country"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// Profile is the user-editable subset of User.
type Profile struct {
	FullName        string `json:"full_name"`
	ProfileImageRef string `json:"profile_image_ref,omitempty"`
	Role            string `json:"role,omitempty"`
	Address         string `json:"address,omitempty"`
	City            string `json:"city,omitempty"`
	Country         string `json:"country,omitempty"`
}
