// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/olegiv/agency-go/internal/auth"
	"github.com/olegiv/agency-go/internal/locale"
	"github.com/olegiv/agency-go/internal/model"
)

// Demo mode credentials
const (
	DemoAdminEmail    = "demo@example.com"
	DemoAdminPassword = "demo1234demo"
	DemoAdminName     = "Demo Admin"
)

func text(en, ar string) locale.Text {
	return locale.Text{"en": en, "ar": ar}
}

// SeedDemo fills an empty site with bilingual sample content. It does
// nothing once any service exists.
func SeedDemo(ctx context.Context, q *Queries) error {
	n, err := q.CountServices(ctx)
	if err != nil {
		return fmt.Errorf("counting services: %w", err)
	}
	if n > 0 {
		slog.Info("content already exists, skipping demo seed")
		return nil
	}

	slog.Info("seeding demo content")

	author, err := q.GetUserByEmail(ctx, DemoAdminEmail)
	if err != nil {
		hash, err := auth.HashPassword(DemoAdminPassword)
		if err != nil {
			return fmt.Errorf("hashing demo password: %w", err)
		}
		author, err = q.CreateUser(ctx, model.UserInput{
			Email:        DemoAdminEmail,
			Name:         DemoAdminName,
			PasswordHash: hash,
			Role:         model.RoleAdmin,
		})
		if err != nil {
			return fmt.Errorf("creating demo admin: %w", err)
		}
	}

	services := []model.ServiceInput{
		{
			Title:            text("Web Development", "تطوير المواقع"),
			Slug:             "web-development",
			ShortDescription: text("Fast, accessible websites.", "مواقع سريعة وسهلة الوصول."),
			Description:      text("We build websites that load fast and rank well.", "نبني مواقع سريعة التحميل ومتصدرة في نتائج البحث."),
			Icon:             "Code",
		},
		{
			Title:            text("Mobile Apps", "تطبيقات الجوال"),
			Slug:             "mobile-apps",
			ShortDescription: text("Native and cross-platform apps.", "تطبيقات أصلية ومتعددة المنصات."),
			Icon:             "Smartphone",
		},
		{
			Title:            text("Digital Marketing", "التسويق الرقمي"),
			Slug:             "digital-marketing",
			ShortDescription: text("Campaigns that convert.", "حملات تحقق النتائج."),
			Icon:             "Megaphone",
		},
	}
	for _, in := range services {
		if _, err := q.CreateService(ctx, in); err != nil {
			return fmt.Errorf("creating demo service %s: %w", in.Slug, err)
		}
	}

	category, err := q.CreateCategory(ctx, model.CategoryInput{
		Name:        text("E-commerce", "التجارة الإلكترونية"),
		Description: text("Online stores and marketplaces.", "متاجر وأسواق إلكترونية."),
		Slug:        "e-commerce",
	})
	if err != nil {
		return fmt.Errorf("creating demo category: %w", err)
	}

	projects := []model.ProjectInput{
		{
			Title:       text("Souq Storefront", "واجهة متجر سوق"),
			Description: text("A bilingual storefront.", "واجهة متجر ثنائية اللغة."),
			Content:     text("<p>Full redesign of a regional retailer.</p>", "<p>إعادة تصميم كاملة لمتجر إقليمي.</p>"),
			Slug:        "souq-storefront",
			Client:      "Souq Ltd",
			CategoryID:  &category.ID,
			Status:      model.StatusPublished,
		},
		{
			Title:  text("Internal Dashboard", "لوحة تحكم داخلية"),
			Slug:   "internal-dashboard",
			Status: model.StatusDraft,
		},
	}
	for _, in := range projects {
		if _, err := q.CreateProject(ctx, in); err != nil {
			return fmt.Errorf("creating demo project %s: %w", in.Slug, err)
		}
	}

	if _, err := q.CreateBlogPost(ctx, model.BlogPostInput{
		Title:    text("Designing for right-to-left", "التصميم من اليمين إلى اليسار"),
		Excerpt:  text("Lessons from bilingual projects.", "دروس من المشاريع ثنائية اللغة."),
		Content:  text("## Mirror the layout\n\nIcons and navigation flip too.", "## اعكس التخطيط\n\nالأيقونات والتنقل تنعكس أيضاً."),
		Slug:     "designing-for-rtl",
		AuthorID: author.ID,
		Status:   model.StatusPublished,
	}); err != nil {
		return fmt.Errorf("creating demo post: %w", err)
	}

	team := []model.TeamMemberInput{
		{
			Name:         "Layla Haddad",
			Position:     text("Founder", "المؤسسة"),
			SocialLinks:  model.SocialLinks{"linkedin": "https://www.linkedin.com/in/example"},
			DisplayOrder: 1,
		},
		{
			Name:         "Omar Nasser",
			Position:     text("Lead Developer", "كبير المطورين"),
			SocialLinks:  model.SocialLinks{"github": "https://github.com/example"},
			DisplayOrder: 2,
		},
	}
	for _, in := range team {
		if _, err := q.CreateTeamMember(ctx, in); err != nil {
			return fmt.Errorf("creating demo team member %s: %w", in.Name, err)
		}
	}

	slog.Info("demo content seeded", "services", len(services), "projects", len(projects), "team", len(team))
	return nil
}
