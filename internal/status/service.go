package status

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	pathutils "github.com/temirov/gitstatus/internal/utils/path"
)

const (
	defaultRootPathConstant                    = "."
	minimumConcurrencyConstant                 = 1
	discoveryMissingMessageConstant            = "status service requires a repository discoverer"
	resolverMissingMessageConstant             = "status service requires a repository resolver"
	repositoriesDiscoveredMessageConstant      = "discovered repositories"
	repositoryResolvedMessageConstant          = "resolved repository status"
	repositoryBranchUnavailableMessageConstant = "unable to determine repository branch"
	repositoryStatusUnavailableMessageConstant = "repository status unavailable"
	logFieldRootConstant                       = "root"
	logFieldRepositoryCountConstant            = "repository_count"
	logFieldRepositoryPathConstant             = "repository_path"
	logFieldBranchConstant                     = "branch"
	logFieldStatusConstant                     = "status"
	logFieldReasonConstant                     = "reason"
	logFieldConcurrencyConstant                = "concurrency"
)

var (
	// ErrDiscovererNotConfigured indicates a service was built without a discoverer.
	ErrDiscovererNotConfigured = errors.New(discoveryMissingMessageConstant)
	// ErrResolverNotConfigured indicates a service was built without a resolver.
	ErrResolverNotConfigured = errors.New(resolverMissingMessageConstant)
)

// Service builds status reports for every repository under a root directory.
type Service struct {
	logger       *zap.Logger
	discoverer   RepositoryDiscoverer
	resolver     RepositoryResolver
	homeExpander *pathutils.HomeExpander
	concurrency  int
}

// ServiceOption customizes a Service.
type ServiceOption func(*Service)

// WithConcurrency bounds the number of repositories resolved at the same time.
func WithConcurrency(concurrency int) ServiceOption {
	return func(service *Service) {
		if concurrency < minimumConcurrencyConstant {
			concurrency = minimumConcurrencyConstant
		}
		service.concurrency = concurrency
	}
}

// WithHomeExpander replaces the expander applied to the root path.
func WithHomeExpander(expander *pathutils.HomeExpander) ServiceOption {
	return func(service *Service) {
		if expander != nil {
			service.homeExpander = expander
		}
	}
}

// NewService constructs a Service from its collaborators.
func NewService(logger *zap.Logger, discoverer RepositoryDiscoverer, resolver RepositoryResolver, options ...ServiceOption) (*Service, error) {
	if discoverer == nil {
		return nil, ErrDiscovererNotConfigured
	}
	if resolver == nil {
		return nil, ErrResolverNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	service := &Service{
		logger:       logger,
		discoverer:   discoverer,
		resolver:     resolver,
		homeExpander: pathutils.NewHomeExpander(),
		concurrency:  defaultConcurrencyConstant,
	}
	for _, option := range options {
		if option != nil {
			option(service)
		}
	}
	return service, nil
}

// Build discovers repositories under root and resolves each of them concurrently.
// The returned records follow discovery order. Only root-level discovery failures
// and cancellation of executionContext are reported as errors.
func (service *Service) Build(executionContext context.Context, root string) ([]RepositoryInfo, error) {
	trimmedRoot := strings.TrimSpace(root)
	if len(trimmedRoot) == 0 {
		trimmedRoot = defaultRootPathConstant
	}
	expandedRoot := filepath.Clean(service.homeExpander.Expand(trimmedRoot))

	repositories, discoveryError := service.discoverer.DiscoverRepositories(expandedRoot)
	if discoveryError != nil {
		return nil, discoveryError
	}

	service.logger.Info(
		repositoriesDiscoveredMessageConstant,
		zap.String(logFieldRootConstant, expandedRoot),
		zap.Int(logFieldRepositoryCountConstant, len(repositories)),
		zap.Int(logFieldConcurrencyConstant, service.concurrency),
	)

	records := make([]RepositoryInfo, len(repositories))

	var resolutionGroup errgroup.Group
	resolutionGroup.SetLimit(service.concurrency)
	for repositoryIndex, repositoryPath := range repositories {
		if executionContext.Err() != nil {
			break
		}
		resolutionGroup.Go(func() error {
			if contextError := executionContext.Err(); contextError != nil {
				return contextError
			}
			records[repositoryIndex] = service.resolveRepository(executionContext, repositoryPath)
			return nil
		})
	}
	if waitError := resolutionGroup.Wait(); waitError != nil {
		return nil, waitError
	}

	if contextError := executionContext.Err(); contextError != nil {
		return nil, contextError
	}
	return records, nil
}

func (service *Service) resolveRepository(executionContext context.Context, repositoryPath string) RepositoryInfo {
	record, resolveError := service.resolver.Resolve(executionContext, repositoryPath)
	if resolveError != nil {
		service.logger.Warn(
			repositoryBranchUnavailableMessageConstant,
			zap.String(logFieldRepositoryPathConstant, repositoryPath),
			zap.Error(resolveError),
		)
		return RepositoryInfo{
			FolderName: filepath.Base(repositoryPath),
			Path:       repositoryPath,
			Status:     SyncStateUnavailable,
			Reason:     ReasonBranchFailed,
			Failure:    resolveError.Error(),
		}
	}

	if record.Status == SyncStateUnavailable {
		service.logger.Warn(
			repositoryStatusUnavailableMessageConstant,
			zap.String(logFieldRepositoryPathConstant, repositoryPath),
			zap.String(logFieldBranchConstant, record.Branch),
			zap.String(logFieldReasonConstant, string(record.Reason)),
		)
		return record
	}

	service.logger.Debug(
		repositoryResolvedMessageConstant,
		zap.String(logFieldRepositoryPathConstant, repositoryPath),
		zap.String(logFieldBranchConstant, record.Branch),
		zap.String(logFieldStatusConstant, string(record.Status)),
	)
	return record
}
