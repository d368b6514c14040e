package account

// Account is one row per GitHub identity, keyed by GitHub's numeric user ID
// rendered as a string. Bio and Email stay nullable because GitHub returns
// null for users who have not filled them in.
type Account struct {
	OwnerID        string  `gorm:"column:owner_id;primaryKey"`
	Name           string  `gorm:"column:name"`
	Login          string  `gorm:"column:userid"`
	AvatarURL      string  `gorm:"column:avatar_url"`
	Bio            *string `gorm:"column:bio"`
	Email          *string `gorm:"column:email"`
	FollowersCount int     `gorm:"column:followers_count"`
	FollowingCount int     `gorm:"column:following_count"`
}

func (Account) TableName() string {
	return "user_info"
}
