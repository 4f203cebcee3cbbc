package consts

const (
	MimePrefixImage = "image"
)

// 文章状态
const (
	ArticleStatusDraft    int8 = 0
	ArticleStatusPending  int8 = 1
	ArticleStatusApproved int8 = 2
	ArticleStatusRejected int8 = 3
)

var articleStatusNames = map[int8]string{
	ArticleStatusDraft:    "draft",
	ArticleStatusPending:  "pending",
	ArticleStatusApproved: "approved",
	ArticleStatusRejected: "rejected",
}

// ArticleStatusName 返回状态的对外名称
func ArticleStatusName(status int8) string {
	if name, ok := articleStatusNames[status]; ok {
		return name
	}
	return "unknown"
}

// ArticleStatusFromName 对外名称转状态值
func ArticleStatusFromName(name string) (int8, bool) {
	for status, n := range articleStatusNames {
		if n == name {
			return status, true
		}
	}
	return 0, false
}

// 角色
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

const (
	DefaultAvatarURL = "default_avatar.png"
)
