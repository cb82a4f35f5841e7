package domain

import "time"

// Student is a candidate account, searchable by college name.
type Student struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"type:varchar(191);not null" json:"name"`
	Email      string    `gorm:"type:varchar(191);uniqueIndex:idx_student_email;not null" json:"email"`
	Password   string    `gorm:"type:text;not null" json:"-"`
	RollNumber string    `gorm:"type:varchar(64);uniqueIndex:idx_student_roll;not null" json:"rollNumber"`
	College    string    `gorm:"type:varchar(191);index;not null" json:"college"`
	Course     string    `gorm:"type:varchar(191);not null" json:"course"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"-"`
}

// Recruiter is a company-side account.
type Recruiter struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(191);not null" json:"name"`
	Email       string    `gorm:"type:varchar(191);uniqueIndex:idx_recruiter_email;not null" json:"email"`
	Password    string    `gorm:"type:text;not null" json:"-"`
	CompanyName string    `gorm:"type:varchar(191);not null" json:"companyName"`
	CompanyID   string    `gorm:"type:varchar(64);uniqueIndex:idx_recruiter_company;not null" json:"companyId"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"-"`
}

// College is an institution account. Calls are always targeted at a college.
type College struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(191);not null" json:"name"`
	Email       string    `gorm:"type:varchar(191);uniqueIndex:idx_college_email;not null" json:"email"`
	Password    string    `gorm:"type:text;not null" json:"-"`
	CollegeName string    `gorm:"type:varchar(191);index;not null" json:"collegeName"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"-"`
}
