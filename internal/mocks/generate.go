package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/corps --output domain/corps --outpkg corpsmock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name ClaimRepository --dir ../domain/roster --output domain/roster --outpkg rostermock --filename claim_repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Schedule --dir ../domain/season --output domain/season --outpkg seasonmock --filename schedule_mock.go
