package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// batcher converts a directory tree of images concurrently. The first
// conversion error cancels the walk and wins.
type batcher struct {
	*converter
	jobs int
}

func (b *batcher) findImages(ctx context.Context, base string) (<-chan string, <-chan error, error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.Walk(base, func(file string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			// Ignore any hidden files or directories, otherwise we end up fighting with things like Spotlight, etc.
			if info.Name()[0] == '.' {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if !info.Mode().IsRegular() {
				return nil
			}

			switch filepath.Ext(file) {
			case ".png", ".gif", ".jpg", ".jpeg":
			default:
				return nil
			}

			select {
			case out <- file:
			case <-ctx.Done():
				return errors.New("walk cancelled")
			}

			return nil
		})
	}()
	return out, errc, nil
}

func (b *batcher) imageWorker(ctx context.Context, wg *sync.WaitGroup, in <-chan string, out chan<- asset) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		defer wg.Done()
		for file := range in {
			a, err := b.encodeFile(file)
			if err != nil {
				errc <- err
				return
			}

			select {
			case out <- a:
			case <-ctx.Done():
				return
			}
		}
	}()
	return errc, nil
}

func (b *batcher) run(path string) ([]asset, error) {
	dir, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	var errcList []<-chan error

	files, errc, err := b.findImages(ctx, dir)
	if err != nil {
		return nil, err
	}
	errcList = append(errcList, errc)

	jobs := b.jobs
	if jobs < 1 {
		jobs = 1
	}

	out := make(chan asset)

	var wg sync.WaitGroup
	wg.Add(jobs)
	for i := 0; i < jobs; i++ {
		errc, err := b.imageWorker(ctx, &wg, files, out)
		if err != nil {
			return nil, err
		}
		errcList = append(errcList, errc)
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	var assets []asset
	done := make(chan struct{})
	go func() {
		defer close(done)
		for a := range out {
			assets = append(assets, a)
		}
	}()

	if err := waitForPipeline(errcList...); err != nil {
		return nil, err
	}
	<-done

	// Walk order depends on worker scheduling, so pin the listing down.
	sort.Slice(assets, func(i, j int) bool {
		return assets[i].name < assets[j].name
	})

	return assets, nil
}

func waitForPipeline(errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}
