package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Store --dir ../domain/snapshot --output domain/snapshot --outpkg snapshotmock --filename store_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/calendar --output domain/calendar --outpkg calendarmock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Source --dir ../domain/tour --output domain/tour --outpkg tourmock --filename source_mock.go
