package service

import (
	"errors"
	"fmt"

	"github.com/nextstepguidance/nextstep/internal/model"
	"github.com/nextstepguidance/nextstep/internal/repository"
	"github.com/nextstepguidance/nextstep/internal/validation"
	"golang.org/x/sync/errgroup"
)

const featuredTestimonials = 3

// SiteConfigInput is the admin config form; blank optional fields clear the column.
type SiteConfigInput struct {
	SiteName   string
	MobileNo   string
	WhatsappNo string
	Address    string
	Email      string
}

type SiteService struct {
	siteRepo   repository.SiteRepository
	socialRepo repository.SocialLinkRepository
}

func NewSiteService(siteRepo repository.SiteRepository, socialRepo repository.SocialLinkRepository) *SiteService {
	return &SiteService{
		siteRepo:   siteRepo,
		socialRepo: socialRepo,
	}
}

// Home loads the marketing page content concurrently. Each source fails on
// its own: content always comes back holding whatever loaded, with the config
// falling back to the default, and err joins the failures.
func (s *SiteService) Home() (*model.HomeContent, error) {
	home := &model.HomeContent{}
	errs := make([]error, 4)
	var g errgroup.Group

	g.Go(func() error {
		faqs, err := s.siteRepo.ActiveFAQs()
		if err != nil {
			errs[0] = fmt.Errorf("faqs: %w", err)
			return nil
		}
		home.FAQs = faqs
		return nil
	})
	g.Go(func() error {
		testimonials, err := s.siteRepo.FeaturedTestimonials(featuredTestimonials)
		if err != nil {
			errs[1] = fmt.Errorf("testimonials: %w", err)
			return nil
		}
		home.Testimonials = testimonials
		return nil
	})
	g.Go(func() error {
		links, err := s.socialRepo.Active()
		if err != nil {
			errs[2] = fmt.Errorf("social links: %w", err)
			return nil
		}
		home.SocialLinks = links
		return nil
	})
	g.Go(func() error {
		cfg, err := s.Config()
		if err != nil {
			errs[3] = fmt.Errorf("site config: %w", err)
			cfg = &model.SiteConfig{SiteName: model.DefaultSiteName}
		}
		home.Config = cfg
		return nil
	})
	_ = g.Wait()

	return home, errors.Join(errs...)
}

// Config returns the stored site config, or an unsaved default when none exists yet.
func (s *SiteService) Config() (*model.SiteConfig, error) {
	cfg, err := s.siteRepo.Config()
	if errors.Is(err, repository.ErrSiteConfigNotFound) {
		return &model.SiteConfig{SiteName: model.DefaultSiteName}, nil
	}
	return cfg, err
}

// SaveConfig creates the singleton on first save and updates it in place afterwards.
func (s *SiteService) SaveConfig(actor *model.Profile, input SiteConfigInput) (*model.SiteConfig, error) {
	err := requireAdmin(actor)
	if err != nil {
		return nil, err
	}

	cfg, err := s.Config()
	if err != nil {
		return nil, err
	}

	cfg.SiteName = model.DefaultSiteName
	if name := validation.Optional(input.SiteName); name != nil {
		cfg.SiteName = *name
	}
	cfg.MobileNo = validation.Optional(input.MobileNo)
	cfg.WhatsappNo = validation.Optional(input.WhatsappNo)
	cfg.Address = validation.Optional(input.Address)
	cfg.Email = validation.Optional(input.Email)

	if cfg.Email != nil {
		err = validation.ValidateEmail(*cfg.Email)
		if err != nil {
			return nil, ErrInvalidEmail
		}
	}

	if cfg.ID == "" {
		err = s.siteRepo.CreateConfig(cfg)
	} else {
		err = s.siteRepo.UpdateConfig(cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to save site config: %w", err)
	}
	return cfg, nil
}

func (s *SiteService) SocialLinks(actor *model.Profile) ([]*model.SocialLink, error) {
	err := requireAdmin(actor)
	if err != nil {
		return nil, err
	}
	return s.socialRepo.All()
}

func (s *SiteService) AddSocialLink(actor *model.Profile, platform, url, icon string) (*model.SocialLink, error) {
	err := requireAdmin(actor)
	if err != nil {
		return nil, err
	}

	platform, err = validation.Required("Platform", platform, 50)
	if err != nil {
		return nil, err
	}
	url, err = validation.URL("URL", url)
	if err != nil {
		return nil, err
	}

	last, err := s.socialRepo.LastOrderIndex()
	if err != nil {
		return nil, fmt.Errorf("failed to read social link order: %w", err)
	}

	link := &model.SocialLink{
		Platform:   platform,
		URL:        url,
		IconName:   validation.Optional(icon),
		IsActive:   true,
		OrderIndex: model.NextOrderIndex(last),
	}
	err = s.socialRepo.Create(link)
	if err != nil {
		return nil, fmt.Errorf("failed to create social link: %w", err)
	}
	return link, nil
}

func (s *SiteService) ToggleSocialLink(actor *model.Profile, id string) (*model.SocialLink, error) {
	err := requireAdmin(actor)
	if err != nil {
		return nil, err
	}

	link, err := s.socialRepo.ByID(id)
	if err != nil {
		return nil, err
	}

	link.IsActive = !link.IsActive
	err = s.socialRepo.SetActive(link.ID, link.IsActive)
	if err != nil {
		return nil, fmt.Errorf("failed to update social link: %w", err)
	}
	return link, nil
}

func (s *SiteService) DeleteSocialLink(actor *model.Profile, id string) error {
	err := requireAdmin(actor)
	if err != nil {
		return err
	}
	return s.socialRepo.Delete(id)
}
