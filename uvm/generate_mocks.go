//go:generate mockgen -destination=mocks/mock_allocator.go -package=mocks github.com/abhishekprajapatt/gpu-vmm/uvm PageAllocator
//go:generate mockgen -destination=mocks/mock_migrator.go -package=mocks github.com/abhishekprajapatt/gpu-vmm/uvm Migrator

package uvm
