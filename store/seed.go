// store/seed.go
package store

import "github.com/aiblog/blog-server/domain"

// seedPosts are the demonstration posts every fresh store starts with. Ids
// and timestamps are fixed so both backends seed identical data.
func seedPosts() []domain.Post {
	return []domain.Post{
		{
			ID:        1,
			Title:     "欢迎来到我的【AI】驱动的全栈博客",
			Content:   "这是第一篇文章。在这里我会分享学习笔记与项目心得。\n\n希望你能有所收获。",
			Tags:      []string{"AI", "全栈"},
			CreatedAt: "2025-02-01T10:00:00.000Z",
		},
		{
			ID:        2,
			Title:     "Next.js 服务端组件简介",
			Content:   "Next.js 14 的 App Router 默认使用服务端组件，可以在服务端直接 fetch 数据、访问数据库，减少客户端体积并提升首屏性能。",
			Tags:      []string{"Next.js", "前端"},
			CreatedAt: "2025-02-03T14:30:00.000Z",
		},
		{
			ID:        3,
			Title:     "Tailwind CSS 使用技巧",
			Content:   "Tailwind 通过工具类快速实现样式。合理使用 @apply、组件化重复组合，并配合 dark: 实现深色模式，能让样式既统一又易维护。",
			Tags:      []string{"CSS", "前端"},
			CreatedAt: "2025-02-05T09:15:00.000Z",
		},
	}
}
