package service

import (
	"fmt"

	"village-go/internal/model"
	"village-go/internal/repository"
	"village-go/pkg/log"
)

// ResourceService 定义了支持资源目录的业务操作。目录对所有访客只读。
type ResourceService interface {
	List() ([]model.Resource, error)
	// Seed 在目录为空时写入默认资源，重复调用是幂等的。
	Seed() error
}

type resourceService struct {
	resourceRepo repository.ResourceRepository
}

// NewResourceService 创建一个新的 ResourceService 实例。
func NewResourceService(resourceRepo repository.ResourceRepository) ResourceService {
	return &resourceService{resourceRepo: resourceRepo}
}

// List 返回目录中的全部资源。
func (s *resourceService) List() ([]model.Resource, error) {
	return s.resourceRepo.FindAll()
}

// defaultResources 是启动时播种的默认支持资源目录。
// mock 路径的危机转介回复会引导用户到这里的热线条目。
var defaultResources = []model.Resource{
	{
		Name:        "988 Suicide & Crisis Lifeline",
		Description: "Free, confidential support for people in distress, 24/7.",
		URL:         "https://988lifeline.org",
		Phone:       "988",
		Category:    "Crisis support",
	},
	{
		Name:        "Crisis Text Line",
		Description: "Text HOME to connect with a volunteer crisis counselor.",
		URL:         "https://www.crisistextline.org",
		Phone:       "Text HOME to 741741",
		Category:    "Crisis support",
	},
	{
		Name:        "7 Cups",
		Description: "Free emotional support through trained volunteer listeners.",
		URL:         "https://www.7cups.com",
		Category:    "Peer support",
	},
	{
		Name:        "Meetup",
		Description: "Find local groups and events to meet people around shared interests.",
		URL:         "https://www.meetup.com",
		Category:    "Community",
	},
	{
		Name:        "NAMI HelpLine",
		Description: "Information, resource referrals and support for mental health questions.",
		URL:         "https://www.nami.org/help",
		Phone:       "1-800-950-6264",
		Category:    "Mental health",
	},
}

// Seed 在目录为空时写入默认资源。
func (s *resourceService) Seed() error {
	count, err := s.resourceRepo.Count()
	if err != nil {
		return fmt.Errorf("failed to count resources: %w", err)
	}
	if count > 0 {
		return nil
	}
	for i := range defaultResources {
		resource := defaultResources[i]
		if err := s.resourceRepo.Create(&resource); err != nil {
			return fmt.Errorf("failed to seed resource %q: %w", resource.Name, err)
		}
	}
	log.Infof("seeded %d default resources", len(defaultResources))
	return nil
}
